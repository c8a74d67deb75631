package main

import (
	"context"
	"log"
	"time"

	"ecommerce-edge/internal/config"
	"ecommerce-edge/internal/handler"
	"ecommerce-edge/internal/logger"
	"ecommerce-edge/internal/ratelimit"
	"ecommerce-edge/internal/service"
	"ecommerce-edge/internal/service/mailclient"
	"ecommerce-edge/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}

	store, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RedisAddr != "" {
		limiter = ratelimit.NewRedisLimiter(cfg.RateLimit)
	} else {
		memory := ratelimit.NewMemoryLimiter(cfg.RateLimit)
		memory.StartJanitor(context.Background(), 2*time.Minute)
		limiter = memory
	}

	mail := mailclient.NewMailClient(cfg.Service.MailAPIURL, cfg.Service.MailAPIKey, cfg.Service.FromEmail, cfg.Service.FromName)
	service := service.NewService(cfg.Service, store, mail, zaplog)

	return handler.Serve(cfg.Handler, cfg.RateLimit, limiter, service, zaplog)
}
