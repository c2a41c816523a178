// Package config loads process configuration from the environment,
// grounded on the teacher's infrastructure/config/config.go getEnv*
// helper style.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// EmbeddingConfig selects the embedding profile and its scheduling regime
// (spec.md §4.2).
type EmbeddingConfig struct {
	Profile    string // "local" or "remote"
	Model      string
	Dimensions int
	Endpoint   string // remote profile only
	APIKey     string // remote profile only
}

// LLMConfig selects the LLM provider variant (spec.md §9 closed sum type).
type LLMConfig struct {
	Provider string // "mock", "anthropic", "ollama", "local"
	APIKey   string
	BaseURL  string
	Model    string
}

// BreathingConfig holds the annealing cycle's tunables, read from the
// environment at startup; they become the OptionsWatcher's fallback,
// which an override file can replace at runtime (spec.md §4.6).
type BreathingConfig struct {
	Mode             string // "autonomous" or "hitl"
	IntervalEpochs   int64
	StaleEpochWindow int64
}

// Config holds all process configuration.
type Config struct {
	Environment string
	LogLevel    string

	PostgresDSN     string
	PostgresMaxConn int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventBusName string
	AWSRegion    string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	Embedding EmbeddingConfig
	LLM       LLMConfig
	Breathing BreathingConfig

	DefaultOntology      string
	BreathingOptionsFile string
	EmbeddingQueueDepth  int
	JobQueueMaxRetries   int

	EnableMetrics bool
	EnableTracing bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PostgresDSN:     getEnv("POSTGRES_DSN", "postgres://localhost:5432/ontologykg?sslmode=disable"),
		PostgresMaxConn: int32(getEnvInt("POSTGRES_MAX_CONN", 20)),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EventBusName: getEnv("EVENT_BUS_NAME", "ontologykg-events"),
		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),

		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "ontologykg-sources"),

		Embedding: EmbeddingConfig{
			Profile:    getEnv("EMBEDDING_PROFILE", "local"),
			Model:      getEnv("EMBEDDING_MODEL", "local-minilm"),
			Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", 384),
			Endpoint:   getEnv("EMBEDDING_ENDPOINT", ""),
			APIKey:     getEnv("EMBEDDING_API_KEY", ""),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "mock"),
			APIKey:   getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL:  getEnv("LLM_BASE_URL", ""),
			Model:    getEnv("LLM_MODEL", "claude-sonnet-4-5"),
		},
		Breathing: BreathingConfig{
			Mode:             getEnv("BREATHING_MODE", "hitl"),
			IntervalEpochs:   int64(getEnvInt("BREATHING_INTERVAL_EPOCHS", 50)),
			StaleEpochWindow: int64(getEnvInt("BREATHING_STALE_EPOCH_WINDOW", 20)),
		},

		DefaultOntology:      getEnv("DEFAULT_ONTOLOGY", "default"),
		BreathingOptionsFile: getEnv("BREATHING_OPTIONS_FILE", "/etc/ontologykg/breathing_options.json"),
		EmbeddingQueueDepth:  getEnvInt("EMBEDDING_QUEUE_DEPTH", 64),
		JobQueueMaxRetries:   getEnvInt("JOB_QUEUE_MAX_RETRIES", 5),

		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required configuration is present for the selected mode.
func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}
	if c.LLM.Provider == "anthropic" && c.LLM.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
	}
	if c.Embedding.Profile == "remote" && c.Embedding.Endpoint == "" {
		return fmt.Errorf("EMBEDDING_ENDPOINT is required when EMBEDDING_PROFILE=remote")
	}
	if c.Breathing.Mode != "autonomous" && c.Breathing.Mode != "hitl" {
		return fmt.Errorf("BREATHING_MODE must be \"autonomous\" or \"hitl\", got %q", c.Breathing.Mode)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Environment == "development" }
func (c *Config) IsProduction() bool  { return c.Environment == "production" }

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}
