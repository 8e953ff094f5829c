package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gotruck.backend/internal/config"
	"gotruck.backend/internal/infrastructure/jobs"
	"gotruck.backend/internal/infrastructure/repositories"
	"gotruck.backend/internal/interfaces/http/handlers"
	"gotruck.backend/internal/interfaces/http/middleware"
	"gotruck.backend/internal/usecases"
	"gotruck.backend/pkg/jwt"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/metrics"
	"gotruck.backend/pkg/redis"
)

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
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

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
		log.Printf("database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	actorRepo := repositories.NewActorRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	walletRepo := repositories.NewWalletAccountRepository(db)
	referralRepo := repositories.NewReferralRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	uow := repositories.NewUnitOfWork(db)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	m := metrics.New()

	// Usecases
	accrualUsecase := usecases.NewAccrualUsecase(actorRepo, referralRepo, orderRepo, ledgerRepo, walletRepo, uow, m)
	withdrawalUsecase := usecases.NewWithdrawalUsecase(actorRepo, ledgerRepo, walletRepo, uow, m)
	ledgerUsecase := usecases.NewLedgerUsecase(ledgerRepo, walletRepo)
	authUsecase := usecases.NewAuthUsecase(actorRepo, referralRepo, walletRepo, uow, jwtService, sessionStore, usecases.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	adminUsecase := usecases.NewAdminUsecase(actorRepo, walletRepo, accrualUsecase, uow)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, actorRepo, accrualUsecase, uow)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	walletHandler := handlers.NewWalletHandler(ledgerUsecase, withdrawalUsecase)
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	adminHandler := handlers.NewAdminHandler(adminUsecase, withdrawalUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditJob := jobs.NewBalanceAuditJob(ledgerRepo, walletRepo, m, cfg.Audit.Interval, cfg.Audit.Repair)
	go auditJob.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		walletHandler:  walletHandler,
		orderHandler:   orderHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down server...")
		auditJob.Stop()
		cancel()
	}()

	log.Printf("GoTruck backend starting on port %s", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
