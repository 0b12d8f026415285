package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/student-gifts/config"
	"github.com/ErlanBelekov/student-gifts/internal/email"
	"github.com/ErlanBelekov/student-gifts/internal/health"
	"github.com/ErlanBelekov/student-gifts/internal/infrastructure/memory"
	"github.com/ErlanBelekov/student-gifts/internal/infrastructure/postgres"
	redisstore "github.com/ErlanBelekov/student-gifts/internal/infrastructure/redis"
	ctxlog "github.com/ErlanBelekov/student-gifts/internal/log"
	"github.com/ErlanBelekov/student-gifts/internal/metrics"
	"github.com/ErlanBelekov/student-gifts/internal/password"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
	"github.com/ErlanBelekov/student-gifts/internal/scheduler"
	"github.com/ErlanBelekov/student-gifts/internal/seed"
	"github.com/ErlanBelekov/student-gifts/internal/token"
	httptransport "github.com/ErlanBelekov/student-gifts/internal/transport/http"
	"github.com/ErlanBelekov/student-gifts/internal/transport/http/handler"
	"github.com/ErlanBelekov/student-gifts/internal/transport/http/middleware"
	"github.com/ErlanBelekov/student-gifts/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel(), os.Stdout)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("db connected")

	userRepo := postgres.NewUserRepository(pool)
	giftRepo := postgres.NewGiftRepository(pool)

	if cfg.SeedOnStart {
		if _, err := seed.NewSeeder(giftRepo, seed.NewGenerator(0), logger).SeedIfEmpty(ctx); err != nil {
			logger.Error("seed on start", "error", err)
		}
	}

	deps := map[string]health.Pinger{"postgres": pool}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	tasks := []scheduler.Task{{
		Name: "rate_limiter_cleanup",
		Spec: cfg.SweepSchedule,
		Run: func(context.Context) (int, error) {
			return limiter.Cleanup(10 * time.Minute), nil
		},
	}}

	// Pending reset tokens live in Redis when configured so they survive
	// restarts and are shared across replicas.
	var resets repository.ResetTokenStore
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()

		store := redisstore.NewResetTokenStore(client)
		resets = store
		deps["redis"] = store
		logger.Info("redis connected")
	} else {
		store := memory.NewResetTokenStore()
		resets = store
		tasks = append(tasks, scheduler.Task{
			Name: "reset_token_sweep",
			Spec: cfg.SweepSchedule,
			Run: func(context.Context) (int, error) {
				n := store.Sweep()
				metrics.ResetTokensSweptTotal.Add(float64(n))
				return n, nil
			},
		})
	}

	tokens, err := token.NewManager([]byte(cfg.JWTSecret), cfg.Alg, cfg.TokenTTL)
	if err != nil {
		stop()
		log.Fatalf("token manager: %v", err)
	}
	hasher := password.NewHasher(bcrypt.DefaultCost)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, resets, tokens, hasher, sender, cfg.ResetLinkBaseURL, logger)
	giftUsecase := usecase.NewGiftUsecase(giftRepo, userRepo, tokens, cfg.GiftsPageSize)

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.RouterDeps{
			Logger:      logger,
			Auth:        handler.NewAuthHandler(authUsecase, logger),
			Gifts:       handler.NewGiftHandler(giftUsecase),
			Check:       handler.NewCheckHandler(checker),
			AuthLimiter: limiter,
			CORSOrigins: cfg.CORSOrigins,
			StaticDir:   cfg.StaticDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)

	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		if err := scheduler.NewReaper(logger, tasks...).Start(ctx); err != nil {
			logger.Error("reaper", "error", err)
		}
	}()

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	<-reaperDone
}
