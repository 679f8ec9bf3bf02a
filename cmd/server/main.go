package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	appsales "github.com/dawapos/backend/internal/application/sales"
	"github.com/dawapos/backend/internal/infrastructure/auth"
	"github.com/dawapos/backend/internal/infrastructure/config"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/infrastructure/payment"
	"github.com/dawapos/backend/internal/infrastructure/persistence"
	"github.com/dawapos/backend/internal/interfaces/http/handler"
	"github.com/dawapos/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting dawapos backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Token revocation needs Redis; without it logout is a client-side
	// operation only.
	var blacklist auth.TokenBlacklist = auth.NoOpTokenBlacklist{}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, token revocation disabled", zap.Error(err))
		_ = redisClient.Close()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient, log)
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	cancelPing()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	taxSettingsRepo := persistence.NewGormTaxSettingsRepository(db.DB)
	lotRepo := persistence.NewGormStockLotRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	returnRepo := persistence.NewGormSaleReturnRepository(db.DB)
	editRequestRepo := persistence.NewGormEditRequestRepository(db.DB)

	stockScope := persistence.NewGormStockTransactionScope(db.DB)
	salesScope := persistence.NewGormSalesTransactionScope(db.DB)

	// Application services
	ledger := appinventory.NewLedger(log)
	stockService := appinventory.NewStockService(stockScope, ledger, lotRepo, movementRepo, log)
	saleService := appsales.NewSaleService(
		salesScope, saleRepo, productRepo, branchRepo, customerRepo,
		userRepo, taxSettingsRepo, ledger, log,
	)
	returnService := appsales.NewSaleReturnService(salesScope, returnRepo, ledger, log)
	editRequestService := appsales.NewEditRequestService(
		salesScope, saleRepo, editRequestRepo, productRepo,
		userRepo, taxSettingsRepo, ledger, log,
	)

	mpesaGateway := payment.NewMpesaGateway(cfg.Mpesa, log)
	if mpesaGateway.Enabled() {
		log.Info("mpesa gateway enabled", zap.String("short_code", cfg.Mpesa.ShortCode))
	}

	engine := router.New(cfg, log, jwtService, blacklist, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        handler.NewAuthHandler(userRepo, jwtService, blacklist),
		Sales:       handler.NewSaleHandler(saleService),
		Returns:     handler.NewSaleReturnHandler(returnService),
		EditRequest: handler.NewEditRequestHandler(editRequestService),
		Inventory:   handler.NewInventoryHandler(stockService),
		Payments:    handler.NewPaymentHandler(mpesaGateway, saleService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
