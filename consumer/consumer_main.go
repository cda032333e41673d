package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-upload-service/config"
	"github.com/tnqbao/gau-upload-service/consumer/worker"
	infraPkg "github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/repository"
)

func main() {
	err := godotenv.Load("../staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Upload Events Consumer
	eventsConsumer := worker.NewUploadEventsConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := eventsConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Upload Events consumer: %v", err)
		log.Fatalf("Failed to start Upload Events consumer: %v", err)
	}

	// Start Staging Sweeper
	sweeper := worker.NewStagingSweeper(infra, cfg.EnvConfig)
	sweeper.Start(ctx)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel() // Cancel context to stop consumers

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")

	if err := infra.Logger.Shutdown(context.Background()); err != nil {
		log.Printf("Logger shutdown: %v", err)
	}
}
