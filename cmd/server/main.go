// Backoffice server wires the catalog, inventory and fulfillment
// services behind a store-scoped HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	catalogapp "github.com/commercebay/backoffice/internal/application/catalog"
	fulfillmentapp "github.com/commercebay/backoffice/internal/application/fulfillment"
	inventoryapp "github.com/commercebay/backoffice/internal/application/inventory"
	"github.com/commercebay/backoffice/internal/infrastructure/cache"
	"github.com/commercebay/backoffice/internal/infrastructure/config"
	"github.com/commercebay/backoffice/internal/infrastructure/event"
	"github.com/commercebay/backoffice/internal/infrastructure/logger"
	"github.com/commercebay/backoffice/internal/infrastructure/persistence"
	"github.com/commercebay/backoffice/internal/infrastructure/telemetry"
	"github.com/commercebay/backoffice/internal/interfaces/http/handler"
	"github.com/commercebay/backoffice/internal/interfaces/http/middleware"
	"github.com/commercebay/backoffice/internal/interfaces/http/router"
)

const version = "1.0.0"

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
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting backoffice server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing. Disabled config yields a no-op provider, so the rest of
	// the wiring stays the same either way.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run schema migration", zap.Error(err))
	}

	// Availability cache. Redis is preferred; if it is unreachable the
	// server falls back to a process-local cache rather than refusing
	// to start.
	var availabilityCache inventoryapp.AvailabilityCache
	var cachePinger handler.CachePinger
	redisCache, err := cache.NewRedisAvailabilityCache(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory availability cache",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		availabilityCache = cache.NewInMemoryAvailabilityCache(cfg.Redis.AvailabilityTTL)
	} else {
		log.Info("Redis availability cache connected", zap.String("addr", cfg.Redis.Addr()))
		availabilityCache = redisCache
		cachePinger = redisCache
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	levelRepo := persistence.NewGormInventoryLevelRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	locationRegistry := persistence.NewGormLocationRegistry(db.DB)

	// Transaction scopes
	catalogScope := persistence.NewGormCatalogTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	fulfillmentScope := persistence.NewGormFulfillmentTransactionScope(db.DB)

	// Application services
	variantService := catalogapp.NewVariantService(productRepo, variantRepo, catalogScope, locationRegistry)
	levelService := inventoryapp.NewLevelService(levelRepo, inventoryScope)
	levelService.SetAvailabilityCache(availabilityCache)
	transferService := fulfillmentapp.NewTransferService(transferRepo, fulfillmentScope)
	transferService.SetAvailabilityCache(availabilityCache)
	shipmentService := fulfillmentapp.NewShipmentService(shipmentRepo, fulfillmentScope)
	shipmentService.SetAvailabilityCache(availabilityCache)
	purchaseOrderService := fulfillmentapp.NewPurchaseOrderService(purchaseOrderRepo, fulfillmentScope)
	purchaseOrderService.SetAvailabilityCache(availabilityCache)

	// Event bus with an audit log consumer
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))

	variantService.SetEventPublisher(eventBus)
	levelService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	shipmentService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSFromHTTPConfig(&cfg.HTTP)))

	// Health endpoints stay outside the store-scoped API group
	handler.NewSystemHandler(db, cachePinger, version).RegisterRoutes(engine)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGroupMiddleware(middleware.StoreScope()),
	)
	r.Register(
		handler.NewProductHandler(variantService),
		handler.NewInventoryHandler(levelService),
		handler.NewTransferHandler(transferService),
		handler.NewShipmentHandler(shipmentService),
		handler.NewPurchaseOrderHandler(purchaseOrderService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
