package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pixa-backend/internal/client"
	"pixa-backend/internal/config"
	"pixa-backend/internal/repository"
	"pixa-backend/internal/server"
	"pixa-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = client.InitMysqlClient(cfg.DatabaseURL)
	} else {
		db, err = client.InitSqliteClient("pixa.db")
	}
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	geminiClient := client.NewGeminiClient(&cfg.Gemini)

	ledgerRepo := repository.NewLedgerRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	creationRepo := repository.NewCreationRepository(db)

	webhookService := service.NewWebhookService(
		db, log, cfg.Razorpay.WebhookSecret,
		ledgerRepo,
		txRepo,
		purchaseRepo,
	)
	ledgerService := service.NewLedgerService(
		db, log, cfg.Credits.SignupBonus,
		ledgerRepo,
		txRepo,
	)
	refundService := service.NewRefundService(
		db, log,
		ledgerRepo,
		txRepo,
		ticketRepo,
		creationRepo,
	)
	generationService := service.NewGenerationService(
		db, log,
		geminiClient,
		ledgerService,
		creationRepo,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		log, cfg.Auth.JWTSecret,
		webhookService,
		ledgerService,
		refundService,
		generationService,
	)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(logCfg *config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logCfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if logCfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
