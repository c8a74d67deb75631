package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	handlerConfig "ecommerce-edge/internal/handler/config"
	loggerConfig "ecommerce-edge/internal/logger/config"
	ratelimitConfig "ecommerce-edge/internal/ratelimit/config"
	serviceConfig "ecommerce-edge/internal/service/config"
	storeConfig "ecommerce-edge/internal/store/config"
)

type Config struct {
	Handler   handlerConfig.Config
	Service   serviceConfig.Config
	Store     storeConfig.Config
	Logger    loggerConfig.Config
	RateLimit ratelimitConfig.Config
}

func GetConfig() Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		Handler: handlerConfig.Config{
			ServerAddr: getEnv("SERVER_ADDR", ":8080"),
			Debug:      getEnvAsBool("DEBUG", false),
		},
		Service: serviceConfig.Config{
			MailAPIURL: getEnv("MAIL_API_URL", ""),
			MailAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:  getEnv("FROM_EMAIL", "noreply@shop.example"),
			FromName:   getEnv("FROM_NAME", "E-commerce"),
			SiteURL:    getEnv("SITE_URL", "https://shop.example"),
		},
		Store: storeConfig.Config{
			DBDsn: getEnv("DATABASE_DSN", ""),
		},
		Logger: loggerConfig.Config{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		RateLimit: ratelimitConfig.Config{
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", ratelimitConfig.DefaultWindow),
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", ratelimitConfig.DefaultMaxRequests),
			RedisAddr:   getEnv("REDIS_ADDR", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
