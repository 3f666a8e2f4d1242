// Package config loads and validates server configuration from file,
// environment and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configurable aspect of the stashd server.
//
// Sources in order of precedence: environment variables (STASHFS_*),
// configuration file (YAML), defaults.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Share    ShareConfig    `mapstructure:"share"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `mapstructure:"addr" validate:"required"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	// Level is the minimum log level: debug or info.
	Level string `mapstructure:"level" validate:"required,oneof=debug info"`
}

// BlobConfig selects and configures the blob store backend.
type BlobConfig struct {
	// Type selects the backend: s3 or memory.
	Type string `mapstructure:"type" validate:"required,oneof=s3 memory"`

	// S3 settings, used only when Type is "s3".
	S3 S3Config `mapstructure:"s3"`
}

// S3Config contains S3 connection settings.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// MetadataConfig configures the SQLite metadata store.
type MetadataConfig struct {
	// Path is the SQLite database file path.
	Path string `mapstructure:"path" validate:"required"`
}

// ShareConfig configures public share links.
type ShareConfig struct {
	// Origin is the public base URL embedded in share links.
	Origin string `mapstructure:"origin" validate:"required,url"`
}

// Load reads configuration from the given file path (optional) plus
// STASHFS_* environment variables, applies defaults, and validates.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("blob.type", "memory")
	v.SetDefault("blob.s3.region", "us-east-1")
	v.SetDefault("metadata.path", "stashfs.db")
	v.SetDefault("share.origin", "http://localhost:8080")

	v.SetEnvPrefix("STASHFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	} else {
		v.SetConfigName("stashd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
