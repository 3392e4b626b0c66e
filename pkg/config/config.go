package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GigaChat GigaChatConfig
	RAG      RAGConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	SecretKey    string // shared secret expected in X-Secret-Key on admin routes
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	EmbeddingModel     string
	InsecureSkipVerify bool
}

// RAGConfig carries every pipeline threshold. Components receive these at
// construction so each scenario can be tested with its own values; nothing
// in the pipeline reads package-level constants.
type RAGConfig struct {
	CacheThreshold  float64 // minimum similarity for a semantic cache hit
	CacheCandidates int     // candidates considered per cache lookup
	RelevanceFloor  float64 // minimum similarity for a retrieved regulation
	TopK            int     // retrieval result cap
	Strategy        string  // vector | keyword | hybrid
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
	LogBuffer       int // query-log writer channel capacity
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// Missing .env is fine: plain environment variables are used directly
	// (Docker/K8s deployments).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	embedTimeout, _ := strconv.Atoi(getEnv("RAG_EMBED_TIMEOUT", "15"))
	generateTimeout, _ := strconv.Atoi(getEnv("RAG_GENERATE_TIMEOUT", "60"))
	topK, _ := strconv.Atoi(getEnv("RAG_TOP_K", "5"))
	cacheCandidates, _ := strconv.Atoi(getEnv("RAG_CACHE_CANDIDATES", "1"))
	logBuffer, _ := strconv.Atoi(getEnv("RAG_LOG_BUFFER", "256"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			SecretKey:    getEnv("APP_SECRET_KEY", ""),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ugtesis"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			EmbeddingModel:     getEnv("GIGACHAT_EMBEDDING_MODEL", "Embeddings"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		RAG: RAGConfig{
			CacheThreshold:  getEnvFloat("RAG_CACHE_THRESHOLD", 0.90),
			CacheCandidates: cacheCandidates,
			RelevanceFloor:  getEnvFloat("RAG_RELEVANCE_FLOOR", 0.50),
			TopK:            topK,
			Strategy:        getEnv("RAG_STRATEGY", "hybrid"),
			EmbedTimeout:    time.Duration(embedTimeout) * time.Second,
			GenerateTimeout: time.Duration(generateTimeout) * time.Second,
			LogBuffer:       logBuffer,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
