package config

import "time"

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 100
)

type Config struct {
	Window      time.Duration
	MaxRequests int
	// RedisAddr switches the limiter to a shared Redis counter.
	// Empty means process-local memory.
	RedisAddr string
}

func Default() Config {
	return Config{
		Window:      DefaultWindow,
		MaxRequests: DefaultMaxRequests,
	}
}
