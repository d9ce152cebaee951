package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Database
	DatabaseURL string
	DBMaxConns  int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// AI providers
	AIProvider   string // "openai" | "gemini"
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Transcript retrieval
	PreferredLanguages []string

	// Worker
	VideoDelaySeconds int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBMaxConns:  getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		AIProvider:   strings.ToLower(getEnvOrDefault("AI_PROVIDER", "openai")),
		OpenAIAPIKey: getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-pro"),

		PreferredLanguages: getEnvAsListOrDefault("PREFERRED_LANGUAGES", []string{"en", "en-US", "en-GB"}),
		VideoDelaySeconds:  getEnvAsIntOrDefault("VIDEO_DELAY_SECONDS", 3),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
