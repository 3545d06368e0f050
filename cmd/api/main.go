package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"persona-engine/internal/config"
	"persona-engine/internal/db"
	apihttp "persona-engine/internal/http"
	"persona-engine/internal/repository"
	"persona-engine/internal/scoring"
	"persona-engine/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	bank := scoring.DefaultQuestionnaire()
	if cfg.QuestionnairePath != "" {
		bank, err = scoring.LoadQuestionnaireFile(cfg.QuestionnairePath)
		if err != nil {
			logger.Fatal("load questionnaire", zap.String("path", cfg.QuestionnairePath), zap.Error(err))
		}
	}
	engine := scoring.NewEngine(bank, nil)
	logger.Info("questionnaire loaded", zap.Int("questions", bank.Len()))

	var results repository.ResultRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		results = repository.NewPgResultRepository(pool)
	} else {
		logger.Warn("database not configured, results will not be stored")
	}

	limiter := service.NewMemoryRateLimiter(cfg.ScoreRateWindow, cfg.ScoreRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.ScoreRateWindow, cfg.ScoreRateLimit)
		}
		cancel()
	}

	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, 0)
	} else {
		logger.Warn("jwt secret not configured, only anonymous scoring is available")
	}

	scoringSvc := service.NewScoringService(engine, results, limiter, logger)
	scoreHandler := apihttp.NewScoreHandler(logger, scoringSvc)
	router := apihttp.NewRouter(logger, scoreHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
