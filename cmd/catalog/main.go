package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shinyyama/virtual-fridge/internal/ai"
	"github.com/shinyyama/virtual-fridge/internal/category"
	"github.com/shinyyama/virtual-fridge/internal/config"
	"github.com/shinyyama/virtual-fridge/internal/db"
	"github.com/shinyyama/virtual-fridge/internal/server"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dict, err := category.LoadDictionary(cfg.CategoriesFile)
	if err != nil {
		log.Fatalf("category dictionary error: %v", err)
	}

	var cache category.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("redis ping error: %v (using in-process cache)", err)
		} else {
			cache = category.NewRedisCache(rdb, cfg.CategoryCacheTTL)
		}
		cancel()
	}

	var classifier category.Classifier
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewCategoryClient(ctx, cfg.GeminiAPIKey, cfg.GeminiCategoryModel)
		if err != nil {
			log.Printf("gemini client error: %v (keyword matching only)", err)
		} else {
			classifier = client
		}
	}

	conn := connect(cfg)
	resolver := category.NewResolver(dict, cache, classifier)
	srv := server.NewCatalog(conn, resolver, server.Options{AllowedOrigins: cfg.CORSOrigins})

	addr := ":" + cfg.CatalogPort
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting catalog service on %s (%d categories)", addr, len(dict.Slugs()))
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}

	if conn != nil {
		if err := db.Close(conn); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}

// connect mirrors the inventory api: the table is migrated by whichever service starts first.
func connect(cfg *config.Config) *gorm.DB {
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Printf("db connect error: %v", err)
		return nil
	}
	if err := db.Migrate(conn); err != nil {
		log.Printf("auto migrate error: %v", err)
	}
	return conn
}
