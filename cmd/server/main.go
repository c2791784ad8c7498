package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/logger"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/token"
	"github.com/iliyamo/auth-service/internal/utils"
)

func main() {
	cfg := config.Load()
	logg := logger.New("auth-service", cfg.LogLevel)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql connect failed: %v", err)
	}
	defer db.Close()

	// Sessions live only in Redis, so an unreachable Redis is fatal.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis connect failed")
	}
	defer rdb.Close()

	engine := token.NewEngine(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.RotateThresholdDays)

	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		pub := queue.NewPublisher(cfg.RabbitURL, cfg.EventQueue, logg)
		defer pub.Close()
		events = pub
	} else {
		logg.Warn("RABBITMQ_URL not set, event publishing disabled")
	}

	users := repository.NewUserRepo(db, logg)
	sessions := repository.NewSessionRepo(rdb, engine.RefreshTTL(), logg)
	hasher := utils.NewBcryptHasher(cfg.BcryptCost)

	auth := service.NewAuth(users, sessions, engine, hasher, events, logg)

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logg)
	router.Register(e, handler.NewAuthHandler(auth, engine, logg), handler.NewHealthHandler(db, rdb), engine, limiter)

	addr := ":" + cfg.Port
	logg.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
