package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archeomap/poi-content/pkg/poicontent/api"
	"github.com/archeomap/poi-content/pkg/poicontent/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		slog.Error("failed to build service", "err", err)
		os.Exit(1)
	}

	server := api.NewServer(svc, api.Config{
		MaxUploadBytes: cfg.MaxUploadBytes,
		StaticDir:      cfg.StaticDir(),
	})

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     server.Routes(),
		ReadTimeout: cfg.UploadTimeout,
	}

	go func() {
		slog.Info("poi-content server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"storage", cfg.StorageType,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}
