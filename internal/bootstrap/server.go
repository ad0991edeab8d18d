package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-payroll/internal/audit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// ShutdownTimeout bounds how long in-flight payroll runs get to finish.
	ShutdownTimeout time.Duration
}

func (c ServerConfig) shutdownTimeout() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return defaultShutdownTimeout
	}
	return c.ShutdownTimeout
}

// StartHTTPServer serves the payroll API until SIGINT/SIGTERM, then drains it.
func StartHTTPServer(
	router *gin.Engine,
	cfg ServerConfig,
	auditLogger audit.Logger,
) {
	log := zap.L().Named("http.server")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("payroll api listening", zap.String("port", cfg.Port))
		serveErr <- server.ListenAndServe()
	}()

	auditLogger.Log(ctx, audit.AuditLog{
		Action:  audit.ActionServerStarted,
		Message: "payroll api started",
		Meta:    map[string]any{"port": cfg.Port},
	})

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	log.Info("shutdown signal received", zap.Duration("grace", cfg.shutdownTimeout()))
	auditLogger.Log(context.Background(), audit.AuditLog{
		Action:  audit.ActionServerShutdown,
		Message: "payroll api shutting down",
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		return
	}
	log.Info("server exited gracefully")
}
