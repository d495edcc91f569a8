package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"askboard/internal/config"
	"askboard/internal/moderation"
	"askboard/internal/ratelimit"
	"askboard/internal/service"
	"askboard/internal/store"
	"askboard/internal/transport/rest"
	"askboard/internal/transport/ws"
)

func main() {
	log.Println("started")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(store.Config{
		Classifier: moderation.NewTermClassifier(),
	})

	// Session-creation limiter: Redis-backed when configured, in-memory
	// otherwise. The per-connection question limiter is always in-memory;
	// its keys die with the process's connections anyway.
	var creationLimiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		creationLimiter = ratelimit.NewRedisLimiter(rdb, cfg.SessionCreateWindow, cfg.SessionCreateMax)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.SessionCreateWindow, cfg.SessionCreateMax)
		go memLimiter.Run(ctx)
		creationLimiter = memLimiter
	}

	questionLimiter := ratelimit.NewMemoryLimiter(cfg.QuestionRateWindow, cfg.QuestionRateMax)
	go questionLimiter.Run(ctx)

	hub := ws.NewHub()
	log.Println("WebSocket hub started")

	sweeper := service.NewSweeper(st, hub, cfg.SweepInterval)
	go sweeper.Run(ctx)

	router := rest.NewRouter(&rest.Container{
		Store:           st,
		CreationLimiter: creationLimiter,
		WSHandler:       ws.NewHandler(hub, st, questionLimiter),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET/POST /api/sessions")
		log.Println("  GET  /api/sessions/{id}")
		log.Println("  GET  /api/sessions/{id}/admin")
		log.Println("  WS   /ws")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
