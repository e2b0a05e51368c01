package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the matchdex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Qdrant  QdrantConfig  `yaml:"qdrant"`
	Cache   CacheConfig   `yaml:"cache"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Colbert ColbertConfig `yaml:"colbert"`
	Search  SearchConfig  `yaml:"search"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// QdrantConfig holds vector index connection settings.
type QdrantConfig struct {
	Addr             string `yaml:"addr"` // host:port of the gRPC endpoint
	APIKey           string `yaml:"api_key"`
	Collection       string `yaml:"collection"`
	UpsertBatchSize  int    `yaml:"upsert_batch_size"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the embedding-cache / budget store connection.
// Empty addrs disables caching and persistent budget counters.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// OpenAIConfig holds OpenAI API settings for embeddings, query parsing
// and narrative generation.
type OpenAIConfig struct {
	APIKey         string       `yaml:"api_key"`
	EmbeddingModel string       `yaml:"embedding_model"` // default: text-embedding-3-small
	ParserModel    string       `yaml:"parser_model"`    // default: gpt-4o-mini
	NarrativeModel string       `yaml:"narrative_model"` // default: gpt-4o
	Budget         BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit      int64   `yaml:"daily_token_limit"`       // 0 = unlimited
	MonthlyTokenLimit    int64   `yaml:"monthly_token_limit"`     // 0 = unlimited
	CostPerMillionTokens float64 `yaml:"cost_per_million_tokens"` // для дашборда
	Action               string  `yaml:"action"`                  // "reject" | "warn" (default)
}

// ColbertConfig holds the late-interaction embedding service settings.
type ColbertConfig struct {
	BaseURL    string `yaml:"base_url"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig holds search pagination settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// IngestConfig holds profile ingestion settings.
type IngestConfig struct {
	CDNBaseURL   string `yaml:"cdn_base_url"`
	MaxBatchSize int    `yaml:"max_batch_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Search with auto-parse does two upstream LLM calls.
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "matrimonial_profiles"
	}
	if c.Qdrant.UpsertBatchSize <= 0 {
		c.Qdrant.UpsertBatchSize = 100
	}
	if c.Qdrant.ReadinessTimeout <= 0 {
		c.Qdrant.ReadinessTimeout = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.ParserModel == "" {
		c.OpenAI.ParserModel = "gpt-4o-mini"
	}
	if c.OpenAI.NarrativeModel == "" {
		c.OpenAI.NarrativeModel = "gpt-4o"
	}
	if c.Colbert.Dimensions <= 0 {
		c.Colbert.Dimensions = 1024
	}
	if c.Colbert.TimeoutSec <= 0 {
		c.Colbert.TimeoutSec = 30
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 100
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 200
	}
	if c.Ingest.MaxBatchSize <= 0 {
		c.Ingest.MaxBatchSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Qdrant.Addr == "" {
		return fmt.Errorf("qdrant.addr is required")
	}
	switch c.OpenAI.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"openai.budget.action must be \"warn\" or \"reject\", got %q",
			c.OpenAI.Budget.Action,
		)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf(
			"search.default_limit %d exceeds search.max_limit %d",
			c.Search.DefaultLimit, c.Search.MaxLimit,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
