package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"lapor/internal/components"
	"lapor/internal/config"
)

func Run() error {
	bootLogger := components.SetupLogger("local")
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := components.InitComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := comps.HttpServer.Run(ctx); err != nil {
			logger.Error("http server failed", "err", err)
			stop()
		}
		logger.Info("http server stopped")
	}()
	go func() {
		defer wg.Done()
		comps.RunWorkers(ctx)
	}()

	<-ctx.Done()
	logger.Info("captured signal, initiating shutdown")

	wg.Wait()

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	logger.Info("gracefully shutting down the servers")

	return nil
}
