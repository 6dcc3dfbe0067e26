package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the inspiration assistant.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig holds publication data loading configuration.
type DataConfig struct {
	Dir      string   `yaml:"dir" env:"INSPIRE_DATA_DIR"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// IndexConfig holds vector index configuration.
type IndexConfig struct {
	Provider   string `yaml:"provider" env:"INSPIRE_INDEX_PROVIDER"` // "bolt", "qdrant", "memory"
	QdrantURL  string `yaml:"qdrant_url" env:"QDRANT_URL"`           // host:port of the gRPC endpoint
	Collection string `yaml:"collection"`
}

// RetrieveConfig holds retrieval pipeline configuration.
type RetrieveConfig struct {
	FetchK         int     `yaml:"fetch_k"`         // broad knn pool before filtering
	FinalK         int     `yaml:"final_k"`         // output result limit
	DedupLimit     int     `yaml:"dedup_limit"`     // distinct projects kept for the reranker
	MMRLambda      float64 `yaml:"mmr_lambda"`      // relevance weight, 0..1
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"` // minimum award similarity ratio, 0..1
	TagMarker      string  `yaml:"tag_marker"`      // query token introducing an award phrase
	TimeoutSeconds int     `yaml:"timeout_seconds"` // index search timeout
}

// Timeout returns the index search timeout as a duration. Zero disables it.
func (r RetrieveConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	BaseURL   string `yaml:"base_url"`    // override for OpenAI-compatible endpoints
	APIKeyEnv string `yaml:"api_key_env"` // environment variable holding the API key
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LLMConfig holds answer generation configuration.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "groq", "openai"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxResults  int     `yaml:"max_results"` // projects listed in the answer prompt
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"INSPIRE_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:      "data",
			Includes: []string{"**/*.json"},
			Excludes: []string{"**/.*/**"},
		},
		Index: IndexConfig{
			Provider:   "bolt",
			QdrantURL:  "localhost:6334",
			Collection: "publications",
		},
		Retrieve: RetrieveConfig{
			FetchK:         500,
			FinalK:         5,
			DedupLimit:     20,
			MMRLambda:      0.7,
			FuzzyThreshold: 0.70,
			TagMarker:      "tag",
			TimeoutSeconds: 30,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama-3.1-8b-instant",
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: 0.2,
			MaxTokens:   1024,
			MaxResults:  5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides. A .env file in the working directory is picked up before the
// environment is read.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg)
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return applyEnv(cfg)
}

// LoadFromDir loads configuration from a directory (looks for inspire.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "inspire.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".inspire", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return applyEnv(DefaultConfig())
}

// applyEnv overlays environment variables on the loaded config.
// Missing .env files are not an error.
func applyEnv(cfg *Config) (*Config, error) {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the bolt index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".inspire", "index.db")
}

// EnsureStateDir ensures the .inspire directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".inspire"), 0755)
}
