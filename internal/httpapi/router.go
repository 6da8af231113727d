// Package httpapi exposes the event service over HTTP with gin.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
)

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(h *Handler, cfg config.HTTPConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestIDMiddleware(),
		AccessLogMiddleware(logger),
		RecoveryMiddleware(logger),
		CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	r.GET("/healthz", h.Live)
	r.GET("/readyz", h.Ready)

	api := r.Group("/api")
	api.GET("/events", h.ListEvents)
	api.POST("/events", h.CreateEvent)
	api.PUT("/events/:id", h.UpdateEvent)
	api.DELETE("/events/:id", h.DeleteEvent)
	api.GET("/aggregations", h.GetAggregations)

	return r
}
