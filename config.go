package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	DBPath         string
	SeedPath       string
	SecureCookies  bool
	AllowedOrigins []string
	ClientIdleTTL  time.Duration
	MaxClients     int
	ShuffleSeed    *int64
	Game           GameSettings
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "quiz.db"),
		SeedPath:       getEnv("SEED_PATH", "data/catalog.json"),
		SecureCookies:  getEnv("SECURE_COOKIES", "false") == "true",
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		ClientIdleTTL:  time.Duration(getEnvAsInt("CLIENT_IDLE_TTL_MINUTES", 120)) * time.Minute,
		MaxClients:     getEnvAsInt("MAX_CLIENTS", 10000),
		Game: GameSettings{
			QuestionCount:   getEnvAsInt("QUESTIONS_PER_GAME", 20),
			MaxQuestionTime: time.Duration(getEnvAsInt("MAX_QUESTION_SECONDS", 60)) * time.Second,
		},
	}
	if s := getEnv("SHUFFLE_SEED", ""); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.ShuffleSeed = &seed
		}
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
