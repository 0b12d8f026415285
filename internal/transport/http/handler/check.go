package handler

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/student-gifts/internal/health"
	"github.com/gin-gonic/gin"
)

type readinessChecker interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

type CheckHandler struct {
	checker readinessChecker
}

func NewCheckHandler(checker readinessChecker) *CheckHandler {
	return &CheckHandler{checker: checker}
}

// GET /api/v1/alive
func (h *CheckHandler) Alive(c *gin.Context) {
	h.checker.Liveness(c.Request.Context())
	c.String(http.StatusOK, "Alive")
}

// GET /api/v1/ready
// 503 with per-dependency status when any dependency is down.
func (h *CheckHandler) Ready(c *gin.Context) {
	result := h.checker.Readiness(c.Request.Context())
	if !result.Up() {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.String(http.StatusOK, "Ready")
}
