package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ontologykg/infrastructure/config"
	"ontologykg/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	container.Logger.Info("starting worker service",
		zap.String("environment", cfg.Environment),
		zap.String("default_ontology", cfg.DefaultOntology),
	)

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	jobQueueErrs := make(chan error, 1)
	go func() {
		jobQueueErrs <- container.JobQueue.Run(runCtx)
	}()

	container.Scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		container.Logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-jobQueueErrs:
		if err != nil {
			container.Logger.Error("job queue dispatch loop exited", zap.Error(err))
		}
	}

	container.Logger.Info("shutting down worker service")
	runCancel()
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	container.Shutdown(shutdownCtx)

	if err := container.Logger.Sync(); err != nil {
		log.Printf("failed to sync logger: %v", err)
	}

	log.Println("worker service stopped")
}
