package main

import (
	"os"
	"os/signal"
	"syscall"

	"CrowdMonitor/internal/config"
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/redis"
	"CrowdMonitor/pkg/smtp"

	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	appConfig, err := config.LoadAppConfig()
	logger := log.NewLogger(log.WithLevel(appConfig.LogLevel), log.WithDir(appConfig.LogDir))
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	if envErr != nil {
		logger.Warnf("No .env file loaded: %v", envErr)
	}

	fiberApp := config.NewFiber(appConfig, logger)
	validator := config.NewValidator()
	redisServer := redis.New(redis.Config{
		Address:  appConfig.RedisAddress,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	})
	smtpMailer := smtp.New(smtp.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		User:     appConfig.SMTPUser,
		Password: appConfig.SMTPPassword,
	})
	if !smtpMailer.Enabled() {
		logger.Warn("Email credentials not configured. Email reports will be disabled.")
	}

	server, err := config.NewServer(
		config.WithAppConfig(appConfig),
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithRedisServer(redisServer),
		config.WithSMTPMailer(smtpMailer),
		config.WithMiddleware(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

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
