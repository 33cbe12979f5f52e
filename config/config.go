// Package config loads the run configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/poiesic/cellmatch/ai"
	"github.com/poiesic/cellmatch/table"
	"gopkg.in/yaml.v3"
)

// DataConfig describes the dataset file.
type DataConfig struct {
	Path       string `yaml:"path"`
	Delimiter  string `yaml:"delimiter"`
	ParseDates bool   `yaml:"parse_dates"`
}

// InputsConfig names the plain text inputs: one query per line and one column name per line.
// An empty Columns path selects every column of the dataset.
type InputsConfig struct {
	Queries string `yaml:"queries"`
	Columns string `yaml:"columns"`
}

// OutputsConfig describes where result files are written.
type OutputsConfig struct {
	ResultsDir     string `yaml:"results_dir"`
	ResultsPrefix  string `yaml:"results_prefix"`
	DetailsDir     string `yaml:"details_dir"`
	DetailsPrefix  string `yaml:"details_prefix"`
	FilenameSuffix string `yaml:"filename_suffix"`
}

// EmbeddingConfig selects and configures the embedder.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// MatchingConfig tunes the matcher.
type MatchingConfig struct {
	PoolSize   int           `yaml:"pool_size"`
	BatchSize  int           `yaml:"batch_size"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// Config is the root run configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Inputs    InputsConfig    `yaml:"inputs"`
	Outputs   OutputsConfig   `yaml:"outputs"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Matching  MatchingConfig  `yaml:"matching"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Data: DataConfig{
			Path:       filepath.Join("data", "shipment_dataset.csv"),
			Delimiter:  ";",
			ParseDates: true,
		},
		Inputs: InputsConfig{
			Queries: filepath.Join("user_input", "user_queries.txt"),
		},
		Outputs: OutputsConfig{
			ResultsDir:     filepath.Join("results", "outputs"),
			ResultsPrefix:  "results_",
			DetailsDir:     filepath.Join("results", "similarity_calcs_res"),
			DetailsPrefix:  "detailed_summary_",
			FilenameSuffix: ".json",
		},
		Embedding: EmbeddingConfig{
			Provider:  aiDefaults.Provider,
			Host:      aiDefaults.EmbeddingHost,
			Model:     aiDefaults.EmbeddingModel,
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Matching: MatchingConfig{
			PoolSize:   4,
			BatchSize:  32,
			MaxRetries: 3,
			RetryDelay: time.Second,
		},
	}
}

// Load reads a config from path. If the file does not exist, returns defaults.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TableOptions converts the data section into loader options.
func (c *Config) TableOptions() (table.Options, error) {
	r, size := utf8.DecodeRuneInString(c.Data.Delimiter)
	if r == utf8.RuneError || size != len(c.Data.Delimiter) {
		return table.Options{}, fmt.Errorf("%w: %q", table.ErrInvalidDelimiter, c.Data.Delimiter)
	}
	return table.Options{Delimiter: r, ParseDates: c.Data.ParseDates}, nil
}

// AIConfig converts the embedding section into an ai.Config.
// The API key is read from the environment variable named by api_key_env.
func (c *Config) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithProvider(c.Embedding.Provider),
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
	}
	if c.Embedding.APIKeyEnv != "" {
		opts = append(opts, ai.WithAPIKey(os.Getenv(c.Embedding.APIKeyEnv)))
	}
	cfg := ai.NewConfig(opts...)
	cfg.Normalize()
	return cfg
}

// Validate checks the config for missing or out of range values.
func (c *Config) Validate() error {
	var errs []error
	if c.Data.Path == "" {
		errs = append(errs, errors.New("data.path is required"))
	}
	if _, err := c.TableOptions(); err != nil {
		errs = append(errs, fmt.Errorf("data.delimiter: %w", err))
	}
	if c.Inputs.Queries == "" {
		errs = append(errs, errors.New("inputs.queries is required"))
	}
	if c.Outputs.ResultsDir == "" {
		errs = append(errs, errors.New("outputs.results_dir is required"))
	}
	if c.Outputs.DetailsDir == "" {
		errs = append(errs, errors.New("outputs.details_dir is required"))
	}
	if c.Matching.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("matching.batch_size must be greater than 0, got %d", c.Matching.BatchSize))
	}
	if c.Matching.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("matching.max_retries must be greater than 0, got %d", c.Matching.MaxRetries))
	}
	if err := c.AIConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
