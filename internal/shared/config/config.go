package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	// Auth
	JWTSecret string

	// LLM provider selection + credentials
	LLMProvider  string
	OpenAIKey    string
	OpenAIAPIURL string
	GeminiKey    string
	LLMModel     string

	// Generation behavior
	GenerationTimeout time.Duration

	// Credit policy
	GenerationCost int
	DailyFreeCoins int

	// Autosave / project retention
	AutosaveQuiet time.Duration
	ProjectTTL    time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Port:         os.Getenv("PORT"),
		Env:          os.Getenv("ENV"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LLMProvider:  os.Getenv("LLM_PROVIDER"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIURL: os.Getenv("OPENAI_API_URL"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		LLMModel:     os.Getenv("LLM_MODEL"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "openai"
	}

	cfg.GenerationCost = getEnvInt("GENERATION_COST", 1)
	cfg.DailyFreeCoins = getEnvInt("DAILY_FREE_COINS", 10)
	cfg.GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", 90*time.Second)
	cfg.AutosaveQuiet = getEnvDuration("AUTOSAVE_QUIET_INTERVAL", 2*time.Second)
	cfg.ProjectTTL = getEnvDuration("PROJECT_TTL", 48*time.Hour)

	return cfg
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return v
}
