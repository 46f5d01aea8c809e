package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	History  HistoryConfig  `yaml:"history"`
	Identity IdentityConfig `yaml:"identity"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      int    `yaml:"port"`
	Host      string `yaml:"host"`
	MockMount string `yaml:"mockMount"` // URL prefix for mock servers
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type string `yaml:"type"` // "memory" or "file"
	Path string `yaml:"path"` // Path for file storage
}

// HistoryConfig holds run-history configuration
type HistoryConfig struct {
	MaxResults int `yaml:"maxResults"`
}

// IdentityConfig holds identity/JWT configuration
type IdentityConfig struct {
	Secret   string `yaml:"secret"`   // HMAC secret for bearer tokens
	Required bool   `yaml:"required"` // Reject requests without a valid token
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      8080,
			Host:      "0.0.0.0",
			MockMount: "/mock",
		},
		Storage: StorageConfig{
			Type: "memory",
			Path: "./data",
		},
		History: HistoryConfig{
			MaxResults: 1000,
		},
		Identity: IdentityConfig{
			Secret:   "",
			Required: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
