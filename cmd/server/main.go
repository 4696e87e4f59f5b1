package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polls/internal/cache"
	"polls/internal/config"
	"polls/internal/db"
	"polls/internal/router"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	// GIN_MODE may come from .env, which gin has not seen at init
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	db.Init(cfg)

	pageCache := newPageCache(cfg)

	r, err := router.New(cfg, db.DB, pageCache)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Polls server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	log.Println("Server closed")
}

// newPageCache prefers Redis when configured and falls back to the
// in-process LRU if it cannot be reached.
func newPageCache(cfg config.Config) cache.Cache {
	if cfg.CacheTTL == 0 {
		return cache.Nop{}
	}

	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(context.Background(), cfg.RedisAddr, "polls:")
		if err == nil {
			log.Printf("Page cache: redis at %s", cfg.RedisAddr)
			return rc
		}
		log.Printf("Redis unavailable (%v), using in-process cache", err)
	}

	lru, err := cache.NewLRU(500)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return lru
}
