package main

import (
	"ProjectFinance/internal/config"
	"ProjectFinance/pkg/log"
	"ProjectFinance/pkg/redis"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn(log.Fields{"error": err.Error()}, "No .env file loaded, using process environment")
	}
	logger := log.NewLogger()

	decimal.MarshalJSONWithoutQuotes = true

	fiberApp := config.NewFiber(logger)
	validator, translator, err := config.NewValidator()
	if err != nil {
		logger.Fatalf("Failed to build validator: %v", err)
	}

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator, translator),
		config.WithDatabase(),
		config.WithMiddleware(),
		config.WithUtils(),
	}
	if os.Getenv("REDIS_ADDRESS") != "" {
		options = append(options, config.WithRedisServer(redis.New()))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
