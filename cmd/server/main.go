package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"weather-backend/internal/config"
	apphttp "weather-backend/internal/http"
	"weather-backend/internal/repository/sqlite"
	"weather-backend/internal/service"
	"weather-backend/internal/weather"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		logger.Fatalf("weather api key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	reminderRepo := sqlite.NewReminderRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := reminderRepo.Init(ctx); err != nil {
		logger.Fatalf("init reminder repository: %v", err)
	}

	tokenService := service.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)
	authService := service.NewAuthService(userRepo, tokenService)
	reminderService := service.NewReminderService(reminderRepo)

	var cache *weather.Cache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warnf("redis unreachable, weather cache disabled: %v", err)
		} else {
			cache = weather.NewCache(redisClient, time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute, logger)
			logger.Infof("weather cache enabled via redis at %s", cfg.Redis.Addr)
		}
		cancel()
		defer redisClient.Close()
	}

	weatherClient := weather.NewClient(weather.Config{
		BaseURL: cfg.Weather.BaseURL,
		GeoURL:  cfg.Weather.GeoURL,
		APIKey:  cfg.Weather.APIKey,
		Units:   cfg.Weather.Units,
		Timeout: time.Duration(cfg.Weather.TimeoutSeconds) * time.Second,
	}, cache, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, reminderService, weatherClient, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
