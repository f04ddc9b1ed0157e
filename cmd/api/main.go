package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dating-api/internal/application/verification"
	"github.com/dating-api/internal/config"
	"github.com/dating-api/internal/infrastructure/dynamo"
	"github.com/dating-api/internal/infrastructure/geocode"
	jwtinfra "github.com/dating-api/internal/infrastructure/jwt"
	s3infra "github.com/dating-api/internal/infrastructure/s3"
	"github.com/dating-api/internal/infrastructure/sns"
	stripeinfra "github.com/dating-api/internal/infrastructure/stripe"
	transporthttp "github.com/dating-api/internal/transport/http"
	"github.com/dating-api/internal/transport/ws"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider is optional: auth routes degrade when keys are missing.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for profile photos.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SNS SMS sender is optional in local development.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	verificationRepo := dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.PhoneVerifications)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Store:       verificationRepo,
		Accounts:    userRepo,
		SMS:         smsSender,
		Window:      cfg.VerificationWindow,
		MaxAttempts: cfg.VerificationMaxAttempts,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go verificationSvc.RunSweeper(sweepCtx, cfg.VerificationSweepEvery)

	deps := &transporthttp.Deps{
		UserRepo:         userRepo,
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		SwipeRepo:        dynamo.NewSwipeRepo(dynamoClient, cfg.DynamoTables.Swipes),
		MatchRepo:        dynamo.NewMatchRepo(dynamoClient, cfg.DynamoTables.Matches),
		MessageRepo:      dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTables.Messages),
		SubscriptionRepo: dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions),
		PaymentRepo:      dynamo.NewPaymentRepo(dynamoClient, cfg.DynamoTables.Payments),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		S3Store:          s3Store,
		Payments:         stripeinfra.NewClient(cfg.StripeSecretKey),
		Geocoder:         geocode.NewNominatim(cfg.GeocoderBaseURL),
		JWTProvider:      jwtProvider,
		VerificationSvc:  verificationSvc,
		ChatHub:          ws.NewHub(),
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
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
