package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Muhammed-IrfanAC/signup-bot/pkg/response"
)

// Pinger checks one dependency's liveness
type Pinger func(ctx context.Context) error

// HealthHandler reports service and dependency health
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a health handler with named dependency checks
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	c.JSON(status, response.Success(gin.H{
		"status":       healthWord(status),
		"dependencies": deps,
	}))
}

func healthWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
