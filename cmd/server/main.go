package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	listingapp "github.com/listbridge/backend/internal/application/listing"
	"github.com/listbridge/backend/internal/domain/listing"
	"github.com/listbridge/backend/internal/infrastructure/config"
	"github.com/listbridge/backend/internal/infrastructure/ecommerce"
	"github.com/listbridge/backend/internal/infrastructure/logger"
	"github.com/listbridge/backend/internal/infrastructure/persistence"
	"github.com/listbridge/backend/internal/interfaces/http/handler"
	"github.com/listbridge/backend/internal/interfaces/http/middleware"
	"github.com/listbridge/backend/internal/interfaces/http/router"
)

// maxRequestBodySize bounds inbound JSON payloads
const maxRequestBodySize = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ListBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize repositories
	mappingRepo := persistence.NewGormListingMappingRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)

	// Initialize platform adapters
	shopify, err := ecommerce.NewShopifyAdapter(&ecommerce.ShopifyConfig{
		ShopDomain:     cfg.Shopify.ShopDomain,
		AccessToken:    cfg.Shopify.AccessToken,
		APIVersion:     cfg.Shopify.APIVersion,
		TimeoutSeconds: int(cfg.Shopify.Timeout / time.Second),
	})
	if err != nil {
		log.Fatal("Failed to initialize Shopify adapter", zap.Error(err))
	}

	ebay, err := ecommerce.NewEbayAdapter(&ecommerce.EbayConfig{
		BaseURL:        cfg.Ebay.BaseURL,
		OAuthToken:     cfg.Ebay.OAuthToken,
		MarketplaceID:  cfg.Ebay.MarketplaceID,
		Currency:       cfg.Ebay.Currency,
		TimeoutSeconds: int(cfg.Ebay.Timeout / time.Second),
	})
	if err != nil {
		log.Fatal("Failed to initialize eBay adapter", zap.Error(err))
	}

	// Initialize application services
	policyCache := listingapp.NewPolicyCache(ebay)
	resolver := listingapp.NewAttributeResolver(defaultMappingRules())
	mapper := listingapp.NewProductMapper(listingapp.MapperSettings{
		MarketplaceID:       cfg.Ebay.MarketplaceID,
		Currency:            cfg.Ebay.Currency,
		MerchantLocationKey: cfg.Sync.MerchantLocationKey,
	})
	syncService := listingapp.NewSyncService(
		shopify,
		ebay,
		mappingRepo,
		syncLogRepo,
		policyCache,
		resolver,
		mapper,
		listingapp.SyncSettings{
			AutoSync:            cfg.Sync.AutoSync,
			AutoSyncLimit:       cfg.Sync.AutoSyncLimit,
			PaceInterval:        cfg.Sync.PaceInterval,
			DefaultHandlingDays: cfg.Sync.DefaultHandlingDays,
			MerchantLocationKey: cfg.Sync.MerchantLocationKey,
			MerchantAddress: listing.MerchantAddress{
				AddressLine1:    cfg.Sync.MerchantAddressLine,
				City:            cfg.Sync.MerchantCity,
				StateOrProvince: cfg.Sync.MerchantState,
				PostalCode:      cfg.Sync.MerchantPostalCode,
				Country:         cfg.Sync.MerchantCountry,
			},
		},
		log,
	)

	// Initialize HTTP handlers
	syncHandler := handler.NewSyncHandler(syncService, mappingRepo, syncLogRepo)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Handle cross-origin requests
	// 5. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(maxRequestBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/healthz", systemHandler.Healthz)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// defaultMappingRules is the baseline rule set applied to every category.
// Category-specific overrides are merchant configuration and are expected to
// arrive through an admin surface later; the baseline keeps listings
// publishable out of the box.
func defaultMappingRules() listingapp.RuleSet {
	return listingapp.RuleSet{
		listingapp.DefaultCategory: {
			listingapp.FieldCondition:      listingapp.ConstantRule("NEW"),
			listingapp.FieldTitle:          listingapp.SourceFieldRule("title"),
			listingapp.FieldDescription:    listingapp.SourceFieldRule("body_html"),
			listingapp.FieldIdentifierCode: listingapp.SourceFieldRule("variants[0].barcode"),
		},
	}
}
