package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bangalorecabs/service-booking/internal/application"
	"github.com/bangalorecabs/service-booking/internal/config"
	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/internal/handler"
	"github.com/bangalorecabs/service-booking/internal/middleware"
	"github.com/bangalorecabs/service-booking/internal/platform/logger"
	"github.com/bangalorecabs/service-booking/internal/repository"
	"github.com/bangalorecabs/service-booking/pkg/maps"
)

func main() {
	// Load .env in development; a missing file is fine.
	_ = godotenv.Load()

	// Load configuration. A missing maps API key fails here, before any
	// traffic: the location picker must never degrade silently.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Optional place-cache database
	var db *gorm.DB
	var placeCache application.PlaceCache
	if cfg.DB != nil {
		db, err = gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&repository.PlaceLookupModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		placeCache = repository.NewGormPlaceCacheRepository(db, cfg.CacheTTL)
		log.Info("place cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	} else {
		log.Info("place cache disabled, no database configured")
	}

	// Maps provider
	provider, err := maps.NewGoogleProvider(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal("failed to create maps provider", zap.Error(err))
	}

	bias := geo.Coordinate{Latitude: cfg.Maps.BiasLatitude, Longitude: cfg.Maps.BiasLongitude}

	// Application services
	placeService := application.NewPlaceService(
		provider,
		placeCache,
		cfg.Maps.AutocompleteTimeout,
		cfg.Maps.SearchRadiusMeters,
		log,
	)
	bookingService := application.NewBookingService(cfg.WhatsAppNumber, log)

	// HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	placesHandler := handler.NewPlacesHandler(placeService, bias)
	pickerHandler := handler.NewPickerHandler(placeService, cfg.Picker, bias, cfg.Maps.APIKey, log)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))

	healthHandler := handler.NewHealthHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	bookingHandler.RegisterRoutes(&router.RouterGroup)
	placesHandler.RegisterRoutes(&router.RouterGroup)
	pickerHandler.RegisterRoutes(&router.RouterGroup)

	// Background maintenance
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Abandoned picker sessions (closed tabs, lost clients) are reaped on
	// inactivity so the registry cannot grow without bound.
	go pickerHandler.StartReaper(ctx, cfg.Picker.IdleTimeout)

	if cache, ok := placeCache.(*repository.GormPlaceCacheRepository); ok {
		go func() {
			ticker := time.NewTicker(cfg.CacheTTL)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					purged, err := cache.PurgeExpired(ctx)
					if err != nil {
						log.Error("place cache purge failed", zap.Error(err))
						continue
					}
					if purged > 0 {
						log.Info("purged expired place lookups", zap.Int64("rows", purged))
					}
				}
			}
		}()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
