package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibeprint/storefront/config"
	"github.com/vibeprint/storefront/internal/app/controller"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/vibeprint/storefront/internal/db"
	"github.com/vibeprint/storefront/internal/middleware"
	"github.com/vibeprint/storefront/internal/router"
	"github.com/vibeprint/storefront/internal/scheduler"
	"github.com/vibeprint/storefront/internal/storage"
	ws "github.com/vibeprint/storefront/internal/websocket"
	"github.com/vibeprint/storefront/pkg/logger"
	"github.com/vibeprint/storefront/pkg/payment/mpesa"
	redisclient "github.com/vibeprint/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting VibePrint storefront", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"cart_backend": cfg.Cart.Backend,
		"catalog":      cfg.Catalog.Source,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	// Cart record and change notifications
	var (
		cartRecords  repository.CartRecordRepository
		cartNotifier service.CartNotifier
	)
	switch cfg.Cart.Backend {
	case "memory":
		cartRecords = repository.NewMemoryCartRecordRepository()
		cartNotifier = service.NewLocalCartNotifier()
	default:
		client, err := redisclient.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redisclient.Close()

		notifier := service.NewRedisCartNotifier(client, cfg.Cart.NotifyChannel)
		if err := notifier.Start(ctx); err != nil {
			logger.Fatal("Failed to subscribe to cart notifications", err)
		}
		cartRecords = repository.NewRedisCartRecordRepository(client, cfg.Cart.RecordKey)
		cartNotifier = notifier
	}

	// Object storage is only needed when something lives in S3.
	var objects *storage.S3Storage
	if cfg.Catalog.Source == "s3" || cfg.S3.AccessKeyID != "" {
		objects = storage.NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	}

	var catalogSource service.CatalogSource = service.FileCatalogSource{Path: cfg.Catalog.FilePath}
	if cfg.Catalog.Source == "s3" {
		catalogSource = service.S3CatalogSource{Objects: objects, Key: cfg.Catalog.S3Key}
	}

	mpesaClient, err := mpesa.NewClient(mpesa.Config{
		BaseURL: cfg.Payment.Mpesa.BaseURL,
		PayPath: cfg.Payment.Mpesa.PayPath,
		Timeout: cfg.Payment.Mpesa.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create M-Pesa client", err)
	}

	// Services
	productService := service.NewProductService(productRepo, categoryRepo)
	catalogSyncService := service.NewCatalogSyncService(catalogSource, productRepo, categoryRepo)
	cartService := service.NewCartService(cartRecords, cartNotifier)
	checkoutService := service.NewCheckoutService(cartService, mpesaClient, service.CheckoutOptions{
		RedirectPath:  cfg.Checkout.RedirectPath,
		RedirectDelay: cfg.Checkout.RedirectDelay,
	})
	assistantService := service.NewAssistantService(productService, service.AssistantBusinessInfo{
		BusinessHours:  cfg.Assistant.BusinessHours,
		WhatsAppNumber: cfg.Assistant.WhatsAppNumber,
		MpesaPayBill:   cfg.Assistant.MpesaPayBill,
		MpesaAccount:   cfg.Assistant.MpesaAccount,
	})
	authService := service.NewAuthService(service.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	if cfg.Catalog.SyncOnStart {
		if _, err := catalogSyncService.Sync(ctx); err != nil {
			logger.Warn("Initial catalog sync failed, serving the stored catalog", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	catalogScheduler := scheduler.NewCatalogSyncScheduler(cfg.Catalog.SyncSchedule, catalogSyncService)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog sync scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Every change, local or from another instance, reloads the cart from
	// the durable record and is forwarded to open browser tabs.
	hub := ws.NewHub()
	go hub.Run(ctx)

	cartService.Load(ctx)
	unsubscribe := cartService.Subscribe(func() {
		cartService.Load(context.Background())
		hub.NotifyCartUpdated()
	})
	defer unsubscribe()

	// Controllers
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, productService, hub, cfg.Messaging.WhatsAppOrderNumber, cfg.CORS.AllowedOrigins)
	checkoutController := controller.NewCheckoutController(checkoutService)
	assistantController := controller.NewAssistantController(assistantService)

	var uploads controller.UploadSigner
	if objects != nil {
		uploads = objects
	}
	adminController := controller.NewAdminController(authService, catalogSyncService, uploads, cfg.Catalog.S3Key)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		productController,
		cartController,
		checkoutController,
		assistantController,
		adminController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
