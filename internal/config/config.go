package config

import (
	"os"
	"time"
)

type Config struct {
	Port    string
	Workers int

	// DatasetBackend selects the tabular storage adapter: "xlsx" or "sqlite".
	DatasetBackend string

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string

	FetchTimeout time.Duration
	JobRetention time.Duration
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		Workers:          getEnvInt("WORKERS", 2),
		DatasetBackend:   getEnv("DATASET_BACKEND", "xlsx"),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 20*time.Second),
		JobRetention:     getEnvDuration("JOB_RETENTION", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
