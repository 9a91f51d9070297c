package main

import (
	"complaintdedup/backend/internal/api/handler"
	"complaintdedup/backend/internal/complaint"
	"complaintdedup/backend/internal/config"
	"complaintdedup/backend/internal/events"
	"complaintdedup/backend/internal/logger"
	"complaintdedup/backend/internal/models"
	"complaintdedup/backend/internal/storage"
	"complaintdedup/backend/internal/telegram"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	// 3. Migrations
	if err := db.AutoMigrate(&models.Complaint{}); err != nil {
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, rdb, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	lg.Info("Starting complaint database service", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb, err := setupDependencies(ctx, cfg)
	if err != nil {
		lg.Fatal("Failed to set up dependencies", zap.Error(err))
	}
	lg.Info("Database and Redis connections established, migrations complete")
	s := storage.NewStorageService(db, rdb)

	opts := []complaint.Option{complaint.WithLogger(lg.Named("complaint"))}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, lg.Named("telegram"))
		if err != nil {
			lg.Warn("Telegram notifications disabled", zap.Error(err))
		} else {
			opts = append(opts, complaint.WithNotifier(notifier))
		}
	}
	complaints := complaint.NewService(s, cfg.Dedup, opts...)

	hub := events.NewHub(lg.Named("events"))
	hub.StartPubSubListener(ctx, s.SubscribeEvents(ctx))
	go hub.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	h := handler.NewHandler(complaints, hub, lg.Named("http"))
	h.RegisterRoutes(r, cfg.ServiceJWTSecret)
	if cfg.ServiceJWTSecret == "" {
		lg.Warn("SERVICE_JWT_SECRET is empty, API routes are unauthenticated")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		lg.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("HTTP server shutdown failed", zap.Error(err))
	}
	<-hub.Done()
	if err := rdb.Close(); err != nil {
		lg.Warn("Redis close failed", zap.Error(err))
	}
}
