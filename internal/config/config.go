package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Chunking  ChunkingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Classify  ClassifierConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider    string // "ollama", "gemini", "openai"
	LLMModel       string // e.g. "llama3", "gemini-2.0-flash", "gpt-4o-mini"
	OllamaBaseURL  string
	APIKey         string
	Temperature    float64
	MaxTokens      int
	MaxRetries     int
	AttemptTimeout time.Duration
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	ProviderRPS    float64
	ProviderBurst  int
	Concurrency    int
}

type ChunkingConfig struct {
	MaxChars  int
	Overlap   int
	Backtrack int
}

type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type RateLimitConfig struct {
	Backend  string // "memory" or "redis"
	Capacity int
	Window   time.Duration
}

type UploadConfig struct {
	MaxBytes int64
}

type ClassifierConfig struct {
	AIThreshold        float64
	FallbackConfidence float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			APIKey:         getEnv("LLM_API_KEY", ""),
			Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 2048),
			MaxRetries:     getEnvAsInt("LLM_MAX_RETRIES", 3),
			AttemptTimeout: getEnvAsDuration("LLM_ATTEMPT_TIMEOUT", 60*time.Second),
			BaseDelay:      getEnvAsDuration("LLM_RETRY_BASE_DELAY", time.Second),
			MaxDelay:       getEnvAsDuration("LLM_RETRY_MAX_DELAY", 30*time.Second),
			ProviderRPS:    getEnvAsFloat("LLM_PROVIDER_RPS", 2),
			ProviderBurst:  getEnvAsInt("LLM_PROVIDER_BURST", 4),
			Concurrency:    getEnvAsInt("ANALYSIS_CONCURRENCY", 3),
		},
		Chunking: ChunkingConfig{
			MaxChars:  getEnvAsInt("CHUNK_MAX_CHARS", 4000),
			Overlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
			Backtrack: getEnvAsInt("CHUNK_BACKTRACK", 400),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			TTL:     getEnvAsDuration("CACHE_TTL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Backend:  getEnv("RATE_LIMIT_BACKEND", "memory"),
			Capacity: getEnvAsInt("RATE_LIMIT_CAPACITY", 10),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
		},
		Classify: ClassifierConfig{
			AIThreshold:        getEnvAsFloat("CLASSIFIER_AI_THRESHOLD", 0.5),
			FallbackConfidence: getEnvAsFloat("CLASSIFIER_FALLBACK_CONFIDENCE", 0.3),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
