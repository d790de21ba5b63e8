package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"health-profiler/internal/config"
	apihttp "health-profiler/internal/http"
	"health-profiler/internal/ocr"
	"health-profiler/internal/service"
	"health-profiler/internal/storage"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rules, err := config.LoadRuleset(cfg.RulesetPath)
	if err != nil {
		logger.Fatal("load ruleset", zap.Error(err))
	}

	engine := ocr.NewDisabledEngine("ocr engine not configured")
	if cfg.OCREnabled {
		engine = ocr.NewTesseractEngine(cfg.OCRLanguage)
	}

	var limiter service.UploadRateLimiter = service.NewUploadRateLimiter(time.Minute, cfg.RateLimitPerMinute)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisUploadRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
		}
		cancel()
	}

	uploads, err := storage.NewUploadStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("init upload store", zap.Error(err))
	}

	pipeline := service.NewPipeline(rules, engine, logger)
	surveyHandler := apihttp.NewSurveyHandler(logger, pipeline)
	imageHandler := apihttp.NewImageHandler(logger, pipeline, uploads, limiter, cfg.MaxUploadBytes)
	router := apihttp.NewRouter(logger, surveyHandler, imageHandler, cfg.MaxUploadBytes)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Bool("ocr_enabled", cfg.OCREnabled),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
