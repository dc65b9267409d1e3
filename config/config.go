package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the reposcope configuration.
type Config struct {
	Model           string        `yaml:"model"`            // Preferred chat model
	APIKey          string        `yaml:"api_key"`          // API key for the completion endpoint
	BaseURL         string        `yaml:"base_url"`         // Base URL for OpenAI-compatible endpoints (optional)
	GitHubToken     string        `yaml:"github_token"`     // Optional bearer token for the metadata API
	RetryCount      int           `yaml:"retry_count"`      // Retries for the preferred model
	RetryDelay      time.Duration `yaml:"retry_delay"`      // Fixed delay between attempts
	ConnectivityTTL time.Duration `yaml:"connectivity_ttl"` // Cache lifetime of the connectivity check

	// Context assembly caps
	MaxSelectedFiles       int `yaml:"max_selected_files"`
	MaxCharsPerFile        int `yaml:"max_chars_per_file"`
	MaxTreeEntriesPerLevel int `yaml:"max_tree_entries_per_level"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Model:                  "gpt-4o",
		RetryCount:             2,
		RetryDelay:             time.Second,
		ConnectivityTTL:        60 * time.Second,
		MaxSelectedFiles:       10,
		MaxCharsPerFile:        1000,
		MaxTreeEntriesPerLevel: 10,
		LogLevel:               "info",
	}
}

// Load loads configuration from global and local sources.
// Local config takes precedence over global, which takes precedence
// over defaults. Environment variables override file values.
func Load(workDir string) (*Config, error) {
	cfg := DefaultConfig()

	if globalCfg, err := loadFromFile(globalConfigPath()); err == nil {
		merge(cfg, globalCfg)
	}

	if localCfg, err := loadFromFile(localConfigPath(workDir)); err == nil {
		merge(cfg, localCfg)
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// SaveLocal saves configuration to <workDir>/.reposcope/config.yaml.
func SaveLocal(workDir string, cfg *Config) error {
	configPath := localConfigPath(workDir)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func globalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".reposcope", "config.yaml")
}

func localConfigPath(workDir string) string {
	return filepath.Join(workDir, ".reposcope", "config.yaml")
}

func loadFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// loadFromEnv overrides config values from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("REPOSCOPE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("REPOSCOPE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && cfg.GitHubToken == "" {
		cfg.GitHubToken = v
	}
	if v := os.Getenv("REPOSCOPE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("REPOSCOPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REPOSCOPE_RETRY_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetryCount = n
		}
	}
}

// merge merges non-zero values of src into dst.
func merge(dst, src *Config) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.GitHubToken != "" {
		dst.GitHubToken = src.GitHubToken
	}
	if src.RetryCount != 0 {
		dst.RetryCount = src.RetryCount
	}
	if src.RetryDelay != 0 {
		dst.RetryDelay = src.RetryDelay
	}
	if src.ConnectivityTTL != 0 {
		dst.ConnectivityTTL = src.ConnectivityTTL
	}
	if src.MaxSelectedFiles != 0 {
		dst.MaxSelectedFiles = src.MaxSelectedFiles
	}
	if src.MaxCharsPerFile != 0 {
		dst.MaxCharsPerFile = src.MaxCharsPerFile
	}
	if src.MaxTreeEntriesPerLevel != 0 {
		dst.MaxTreeEntriesPerLevel = src.MaxTreeEntriesPerLevel
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}
