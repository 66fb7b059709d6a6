package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"trufi/internal/app"
	"trufi/internal/catalog"
	"trufi/internal/config"
	"trufi/internal/fare"
	"trufi/internal/geocode"
	"trufi/internal/handler"
	"trufi/internal/metrics"
	internalRedis "trufi/internal/redis"
	"trufi/internal/repository"
	"trufi/internal/repository/postgres"
	"trufi/internal/routing"
	"trufi/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Optional PostgreSQL catalog persistence.
	var db *sql.DB
	var catalogRepo repository.CatalogRepository
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		catalogRepo = postgres.NewCatalogRepository(db)
		log.Println("Connected to PostgreSQL")
	}

	// Optional Redis for provider caches and idempotent edits.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Build the line catalog: stored lines win, then the seed file, then
	// the built-in starter set.
	cat, err := buildCatalog(ctx, cfg, catalogRepo)
	if err != nil {
		log.Fatalf("failed to build catalog: %v", err)
	}
	log.Printf("Catalog ready with %d lines", cat.Len())

	// Wire dependencies.
	server := wireServer(redisClient, nrApp, cfg, cat, catalogRepo)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// buildCatalog assembles the startup catalog. When persistence is enabled
// and holds lines, those win; an empty store gets the seed written back.
func buildCatalog(ctx context.Context, cfg *config.Config, repo repository.CatalogRepository) (*catalog.Catalog, error) {
	seed := catalog.DefaultSeed()
	if cfg.Catalog.SeedFile != "" {
		var err error
		seed, err = catalog.LoadSeedFile(cfg.Catalog.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %d seed lines from %s", len(seed), cfg.Catalog.SeedFile)
	}

	if repo != nil {
		stored, err := repo.LoadLines(ctx)
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			return catalog.New(stored), nil
		}

		cat := catalog.New(seed)
		for _, line := range cat.Lines() {
			if err := repo.SaveLine(ctx, line); err != nil {
				return nil, err
			}
		}
		return cat, nil
	}

	return catalog.New(seed), nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	cfg *config.Config,
	cat *catalog.Catalog,
	catalogRepo repository.CatalogRepository,
) *http.Server {
	// Provider response cache (nil without Redis).
	var cacheStore *internalRedis.CacheStore
	if redisClient != nil {
		cacheStore = internalRedis.NewCacheStore(redisClient)
	}

	// Metrics.
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		collector.CatalogLines.Set(float64(cat.Len()))
	}

	// External providers.
	osrmClient := routing.NewOSRMClient(cfg.Routing.BaseURL, cacheStore)
	geocodeClient := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.DefaultCountry, cacheStore)

	// Initialize services.
	classifier := fareClassifier()
	estimator := service.NewEstimatorService(cat, classifier, osrmClient, cfg.Fare.WalkRadiusM)
	lineService := service.NewLineService(cat, catalogRepo, cfg.Fare.DefaultRatePerKm)

	// Initialize handlers.
	estimateHandler := handler.NewEstimateHandler(estimator, collector)
	fareHandler := handler.NewFareHandler(estimator, collector)
	geocodeHandler := handler.NewGeocodeHandler(geocodeClient, collector)
	lineHandler := handler.NewLineHandler(lineService, collector)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		EstimateHandler: estimateHandler,
		FareHandler:     fareHandler,
		GeocodeHandler:  geocodeHandler,
		LineHandler:     lineHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
		Collector:       collector,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func fareClassifier() *fare.Classifier {
	return fare.NewClassifier(fare.DefaultThresholds(), fare.DefaultRateTable())
}
