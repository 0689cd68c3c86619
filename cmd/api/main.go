package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agrochain-api/internal/config"
	"github.com/agrochain-api/internal/infrastructure/dynamo"
	"github.com/agrochain-api/internal/infrastructure/google"
	jwtinfra "github.com/agrochain-api/internal/infrastructure/jwt"
	"github.com/agrochain-api/internal/infrastructure/smtp"
	"github.com/agrochain-api/internal/infrastructure/sns"
	"github.com/agrochain-api/internal/otp"
	transporthttp "github.com/agrochain-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Pending-code store: in-memory for a single instance, DynamoDB when
	// running more than one process.
	var codes otp.Store
	if cfg.OTPStore == "dynamo" {
		codes = dynamo.NewOTPStore(dynamoClient, cfg.DynamoTables.EmailOTPs)
	} else {
		codes = otp.NewMemoryStore()
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		slog.Warn("JWT provider not available, login responses carry no token", "error", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// Google token verifier (optional — Google endpoints reject without it).
	var googleVerifier *google.Verifier
	if cfg.GoogleClientID != "" {
		googleVerifier = google.NewVerifier(cfg.GoogleClientID)
	} else {
		slog.Warn("GOOGLE_CLIENT_ID not set, Google auth endpoints disabled")
	}

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("SNS sender not available, order notifications disabled", "error", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		ProductRepo: dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products),
		OrderRepo:   dynamo.NewOrderRepo(dynamoClient, cfg.DynamoTables.Orders),
		Codes:       codes,
		Mailer:      mailer,
		Google:      googleVerifier,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
