package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr     string
	DatabaseURL  string
	JWTSecret    string
	ServiceName  string
	InstanceID   string
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string
	OutboxOn     bool
	TracingOn    bool
	JaegerURL    string
}

func Load() *Config {
	return &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:  mustEnv("DATABASE_URL"),
		JWTSecret:    mustEnv("JWT_SECRET"),
		ServiceName:  getEnv("SERVICE_NAME", "iskra-backend"),
		InstanceID:   getEnv("INSTANCE_ID", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "iskra.message.sent"),
		OutboxOn:     getEnvBool("OUTBOX_ENABLED", false),
		TracingOn:    getEnvBool("TRACING_ENABLED", false),
		JaegerURL:    getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing required env: " + k)
	}
	return v
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
