package httptransport

import (
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/ErlanBelekov/student-gifts/internal/transport/http/handler"
	"github.com/ErlanBelekov/student-gifts/internal/transport/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterDeps struct {
	Logger      *slog.Logger
	Auth        *handler.AuthHandler
	Gifts       *handler.GiftHandler
	Check       *handler.CheckHandler
	AuthLimiter *middleware.RateLimiter
	CORSOrigins []string
	StaticDir   string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	r.Use(sloggin.NewWithConfig(d.Logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		Filters:          []sloggin.Filter{sloggin.IgnorePath("/api/v1/alive", "/api/v1/ready")},
	}))
	r.Use(middleware.Metrics())
	r.Use(middleware.Errors(d.Logger))

	if d.StaticDir != "" {
		r.Static("/logos", filepath.Join(d.StaticDir, "logos"))
		r.Static("/images", filepath.Join(d.StaticDir, "images"))
	}

	v1 := r.Group("/api/v1")

	// Public auth routes, throttled per client IP
	auth := v1.Group("")
	if d.AuthLimiter != nil {
		auth.Use(d.AuthLimiter.Handler())
	}
	auth.POST("/sign-in", d.Auth.SignIn)
	auth.POST("/sign-up", d.Auth.SignUp)
	auth.POST("/match-user", d.Auth.MatchUser)
	auth.POST("/update-password", d.Auth.UpdatePassword)

	// Token-protected routes; the usecase verifies the Authorization header
	v1.GET("/gifts", d.Gifts.List)
	v1.GET("/gifts/search", d.Gifts.Search)
	v1.POST("/gifts/claim", d.Gifts.Claim)
	v1.GET("/user", d.Gifts.GetUser)

	v1.GET("/alive", d.Check.Alive)
	v1.GET("/ready", d.Check.Ready)
	v1.GET("/openapi", handler.OpenAPI)
	v1.GET("/docs", handler.Docs)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
