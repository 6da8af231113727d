package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
	"github.com/septivank/babybeat/internal/httpapi"
	"github.com/septivank/babybeat/internal/service"
)

func startServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// bind synchronously so a busy port fails the start
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("http server listening", zap.String("addr", ln.Addr().String()))

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("failed to shut down http server", zap.Error(err))
				return err
			}
			logger.Info("http server stopped gracefully")
			return nil
		},
	})

	return srv
}

// ProvideHandler creates the HTTP handler over the event service
func ProvideHandler(events *service.EventService, logger *zap.Logger) *httpapi.Handler {
	return httpapi.NewHandler(events, logger)
}

// ProvideRouter creates the gin router
func ProvideRouter(h *httpapi.Handler, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	return httpapi.NewRouter(h, cfg.HTTP, logger)
}
