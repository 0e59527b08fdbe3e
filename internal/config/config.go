package config

import "os"

type Config struct {
	RedisHost              string
	RedisPassword          string
	JWTSecret              string
	ServerPort             string
	PollDuration           string
	LockNominationsOnStart bool
	LogLevel               string
}

func Load() *Config {
	return &Config{
		RedisHost:              getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		JWTSecret:              getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		PollDuration:           getEnv("POLL_DURATION", "7200"),
		LockNominationsOnStart: getEnv("LOCK_NOMINATIONS_ON_START", "false") == "true",
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
