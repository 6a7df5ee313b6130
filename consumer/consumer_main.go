package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/consumer/worker"
	infraPkg "github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parseConsumer := worker.NewParseResultConsumer(infra.RabbitMQ.Channel, repo.FileRepo, infra.Logger)
	if err := parseConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start parse result consumer: %v", err)
		log.Fatalf("Failed to start parse result consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	if err := infra.Close(context.Background()); err != nil {
		log.Printf("Failed to close infrastructure: %v", err)
	}
	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
