package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports the service status
type HealthController struct {
	storage Pinger
}

// NewHealthController creates a new HealthController; storage may be nil
// when everything is kept in memory
func NewHealthController(storage Pinger) *HealthController {
	return &HealthController{storage: storage}
}

// Health checks the storage backend
func (c *HealthController) Health(ctx *gin.Context) {
	status := gin.H{"status": "ok", "storage": "memory"}

	if c.storage != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status["storage"] = "postgres"
		if err := c.storage.Ping(pingCtx); err != nil {
			status["status"] = "degraded"
			status["error"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, dto.NewAPIResponse(status))
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status))
}
