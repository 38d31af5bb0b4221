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

	conn := connect(cfg)
	srv := server.New(conn, server.Options{AllowedOrigins: cfg.CORSOrigins})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting inventory api on %s", addr)
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

// connect returns nil when the store is unreachable; the server then runs degraded.
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
