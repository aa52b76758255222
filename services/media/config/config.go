package config

import (
	"os"
	"time"
)

type Config struct {
	NatsURL      string
	RedisAddr    string
	RedisPass    string
	OTLPEndpoint string
	RPCTimeout   time.Duration
}

func Load() Config {
	return Config{
		NatsURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
		RPCTimeout:   getDuration("RPC_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
