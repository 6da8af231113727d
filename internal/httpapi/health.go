package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Live is the liveness probe. Always returns 200.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready is the readiness probe: 200 when the event store answers, 503 if not
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.events.Ready(ctx); err != nil {
		h.requestLogger(c).Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "down", Timestamp: time.Now()})
		return
	}

	c.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now()})
}
