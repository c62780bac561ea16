package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/app"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		logging.Fatalf("startup failed: %v", err)
	}
	defer application.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(application.Server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return application.Server.Shutdown(shutdownCtx)
	})

	logging.Info("indexing service running")
	if err := g.Wait(); err != nil {
		logging.Errorf("shutdown error: %v", err)
		os.Exit(1)
	}
	logging.Info("service stopped")
}
