package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/intelliking/skillhub/internal/api"
	"github.com/intelliking/skillhub/internal/cache"
	"github.com/intelliking/skillhub/internal/config"
	"github.com/intelliking/skillhub/internal/skill"
	pgstore "github.com/intelliking/skillhub/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	logger.Info("Starting skillhub...")

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/skillhub.json"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}
	logger.Info("Config loaded", zap.String("path", cfgPath))

	// Load the skill catalog
	catalog, err := skill.Load(cfg.Skills.GlobalDir, cfg.Skills.UserDir)
	if err != nil {
		logger.Fatal("failed to load skill catalog", zap.Error(err))
	}
	logger.Info("Skill catalog loaded",
		zap.Int("count", len(catalog.List())),
		zap.String("global_dir", cfg.Skills.GlobalDir),
		zap.String("user_dir", cfg.Skills.UserDir))

	// Initialize the settings store
	var settings api.SettingsStore
	var pgStore *pgstore.Store
	if cfg.Database.Postgres.DSN != "" {
		ps, pgErr := pgstore.New(cfg.Database.Postgres.DSN, logger)
		if pgErr != nil {
			logger.Warn("PostgreSQL unavailable, settings will not persist", zap.Error(pgErr))
		} else {
			if mErr := ps.Migrate(context.Background(), "migrations"); mErr != nil {
				logger.Fatal("migration failed", zap.Error(mErr))
			}
			pgStore = ps
			settings = ps
		}
	}
	if settings == nil {
		settings = pgstore.NewMemoryStore()
		logger.Warn("Using in-memory settings store")
	}

	// Initialize the catalog cache
	var catalogCache *cache.CatalogCache
	if cfg.Database.Redis.URL != "" {
		ttl := time.Duration(cfg.Database.Redis.CacheTTLMinutes) * time.Minute
		cc, cacheErr := cache.New(cfg.Database.Redis.URL, ttl, logger)
		if cacheErr != nil {
			logger.Warn("Redis unavailable, serving catalog uncached", zap.Error(cacheErr))
		} else {
			catalogCache = cc
			logger.Info("Catalog cache initialized")
		}
	}

	// Build HTTP handler
	handler := api.NewHandler(catalog, settings, catalogCache, logger)

	// Start server
	port := fmt.Sprintf("%d", cfg.Server.Port)
	if port == "0" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("skillhub listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down skillhub...")
	ctx := context.Background()
	srv.Shutdown(ctx)
	if catalogCache != nil {
		catalogCache.Close()
	}
	if pgStore != nil {
		pgStore.Close()
	}
}
