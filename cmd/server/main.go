package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blinkpay.backend/internal/config"
	"blinkpay.backend/internal/infrastructure/blockchain"
	"blinkpay.backend/internal/infrastructure/fiat"
	"blinkpay.backend/internal/infrastructure/jobs"
	"blinkpay.backend/internal/infrastructure/notify"
	"blinkpay.backend/internal/infrastructure/pricing"
	"blinkpay.backend/internal/infrastructure/repositories"
	"blinkpay.backend/internal/interfaces/http/handlers"
	"blinkpay.backend/internal/registry"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/jwt"
	"blinkpay.backend/pkg/logger"
	"blinkpay.backend/pkg/redis"
)

const expirySweepInterval = time.Minute

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSubmitter = blockchain.NewKeyedSubmitter
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB     = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Network and token catalog
	reg := registry.Default()

	// Initialize repositories
	settlementRepo := repositories.NewSettlementRepository(db)
	bindingRepo := repositories.NewMerchantBindingRepository(db)
	requestRepo := repositories.NewPaymentRequestRepository(db)

	// Blockchain access: one shared client factory, readers per network,
	// and a single relay key for submitting transactions
	clientFactory := blockchain.NewClientFactory()
	rpcURLs := map[string]string{
		"Sepolia":        cfg.Blockchain.SepoliaRPC,
		"Avalanche Fuji": cfg.Blockchain.AvalancheFujiRPC,
		"Base Sepolia":   cfg.Blockchain.BaseSepoliaRPC,
	}
	submitter, err := newSubmitter(clientFactory, rpcURLs, cfg.Blockchain.RelayPrivateKey)
	if err != nil {
		return fmt.Errorf("failed to initialize transaction submitter: %w", err)
	}
	readers := func(network string) (usecases.ChainReader, error) {
		rpcURL, ok := rpcURLs[network]
		if !ok {
			return nil, fmt.Errorf("no RPC endpoint configured for network %s", network)
		}
		return clientFactory.GetEVMClient(rpcURL)
	}

	// Price oracle with a Redis-backed cache in front of CoinGecko
	oracle := pricing.NewCachedOracle(
		pricing.NewCoinGeckoClient(cfg.Pricing.CoinGeckoBaseURL),
		redis.GetClient(),
		cfg.Pricing.CacheTTL,
	)

	// Circle sandbox bridge for fiat deposit addresses, wire accounts and payouts
	circleClient := fiat.NewCircleClient(cfg.Circle.BaseURL, cfg.Circle.APIKey)

	// Merchant notification channel
	hub := notify.NewHub()
	channelTokens := jwt.NewChannelTokenService(cfg.ChannelToken.Secret, cfg.ChannelToken.Expiry)

	minAmountOut, ok := new(big.Int).SetString(cfg.Engine.MinAmountOut, 10)
	if !ok {
		return fmt.Errorf("invalid ENGINE_MIN_AMOUNT_OUT value %q", cfg.Engine.MinAmountOut)
	}

	// Initialize usecases
	balanceUsecase := usecases.NewBalanceUsecase(reg, readers, oracle)
	recorder := usecases.NewSettlementRecorder(settlementRepo, cfg.Engine.HistoryRetention)
	requestUsecase := usecases.NewPaymentRequestUsecase(requestRepo, reg)
	paymentUsecase := usecases.NewPaymentUsecase(
		reg,
		usecases.NewRouteClassifier(reg),
		balanceUsecase,
		usecases.NewAmountResolver(),
		usecases.NewPaymentOrchestrator(submitter, minAmountOut, cfg.Engine.SubmitTimeout),
		recorder,
		requestUsecase,
	)
	merchantFiatUsecase := usecases.NewMerchantFiatUsecase(bindingRepo, circleClient, channelTokens)
	depositMatcher := usecases.NewDepositMatcher(bindingRepo, recorder, hub, circleClient, redis.GetClient())

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	settlementHandler := handlers.NewSettlementHandler(recorder, reg)
	balanceHandler := handlers.NewBalanceHandler(balanceUsecase)
	requestHandler := handlers.NewPaymentRequestHandler(requestUsecase)
	merchantHandler := handlers.NewMerchantHandler(merchantFiatUsecase)
	webhookHandler := handlers.NewWebhookHandler(depositMatcher)
	wsHandler := handlers.NewWSHandler(hub, channelTokens)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewPaymentRequestExpiryJob(requestUsecase, expirySweepInterval)
	go expiryJob.Start(ctx)

	// Initialize router
	r := newRouter(routeDeps{
		paymentHandler:    paymentHandler,
		settlementHandler: settlementHandler,
		balanceHandler:    balanceHandler,
		requestHandler:    requestHandler,
		merchantHandler:   merchantHandler,
		webhookHandler:    webhookHandler,
		wsHandler:         wsHandler,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 BlinkPay Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
