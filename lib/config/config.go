// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/swdict/lib/snapshot"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local work against a checked-out data directory.
	Development Environment = "development"
	// Production is for deployed dictionaries.
	Production Environment = "production"
)

// Source drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Storage backends.
const (
	BackendDir = "dir"
	BackendS3  = "s3"
)

// Config is the root swdict configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	Paths      PathsConfig      `yaml:"paths"`
	Source     SourceConfig     `yaml:"source"`
	Storage    StorageConfig    `yaml:"storage"`
	Index      IndexConfig      `yaml:"index"`
	Repository RepositoryConfig `yaml:"repository"`
	Log        LogConfig        `yaml:"log"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths   *PathsConfig   `yaml:"paths,omitempty"`
	Source  *SourceConfig  `yaml:"source,omitempty"`
	Storage *StorageConfig `yaml:"storage,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for swdict data.
	Root string `yaml:"root"`

	// Data holds the partition and repository snapshots when the
	// storage backend is "dir".
	Data string `yaml:"data"`
}

// SourceConfig selects the relational sign source.
type SourceConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
}

// StorageConfig selects where snapshots are kept.
type StorageConfig struct {
	// Backend is "dir" (Paths.Data) or "s3".
	Backend string `yaml:"backend"`

	S3 S3Config `yaml:"s3"`
}

// S3Config configures an S3-compatible snapshot bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// IndexConfig tunes the symbol index.
type IndexConfig struct {
	// ReverseCacheSize bounds memoized reverse lookups.
	ReverseCacheSize int `yaml:"reverse_cache_size"`
}

// RepositoryConfig configures the sign repository snapshot.
type RepositoryConfig struct {
	// Snapshot is the store name of the repository snapshot.
	Snapshot string `yaml:"snapshot"`

	// Compression is "none", "lz4" or "zstd", used when writing
	// snapshots.
	Compression string `yaml:"compression"`
}

// LogConfig configures the command-line logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is "auto" (text on a terminal, JSON otherwise), "text"
	// or "json".
	Format string `yaml:"format"`
}

// Default returns the default configuration with variables
// expanded. It is used on its own when no file is given.
func Default() *Config {
	cfg := defaults()
	cfg.expandVariables()
	return cfg
}

// defaults is the unexpanded base a file is loaded over, so data
// paths follow a root set in the file.
func defaults() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root: filepath.Join(homeDir, ".cache", "swdict"),
			Data: "${SWDICT_ROOT}/data",
		},
		Source: SourceConfig{
			Driver: DriverSQLite,
			Path:   "${SWDICT_ROOT}/data/swdic.db",
		},
		Storage: StorageConfig{
			Backend: BackendDir,
		},
		Index: IndexConfig{
			ReverseCacheSize: 1024,
		},
		Repository: RepositoryConfig{
			Snapshot:    "swdict.snap",
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by SWDICT_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv("SWDICT_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("SWDICT_CONFIG environment variable not set; " +
			"set it to the path of your swdict.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, applies the environment
// section, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Level: "info", Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		setIfSet(&c.Paths.Root, overrides.Paths.Root)
		setIfSet(&c.Paths.Data, overrides.Paths.Data)
	}

	if overrides.Source != nil {
		setIfSet(&c.Source.Driver, overrides.Source.Driver)
		setIfSet(&c.Source.Path, overrides.Source.Path)
		setIfSet(&c.Source.DSN, overrides.Source.DSN)
	}

	if overrides.Storage != nil {
		setIfSet(&c.Storage.Backend, overrides.Storage.Backend)
		s3 := overrides.Storage.S3
		setIfSet(&c.Storage.S3.Endpoint, s3.Endpoint)
		setIfSet(&c.Storage.S3.Region, s3.Region)
		setIfSet(&c.Storage.S3.AccessKey, s3.AccessKey)
		setIfSet(&c.Storage.S3.SecretKey, s3.SecretKey)
		setIfSet(&c.Storage.S3.Bucket, s3.Bucket)
		setIfSet(&c.Storage.S3.Prefix, s3.Prefix)
		// UseSSL is a bool; it travels with an overridden endpoint.
		if s3.Endpoint != "" {
			c.Storage.S3.UseSSL = s3.UseSSL
		}
	}

	if overrides.Log != nil {
		setIfSet(&c.Log.Level, overrides.Log.Level)
		setIfSet(&c.Log.Format, overrides.Log.Format)
	}
}

func setIfSet(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"SWDICT_ROOT": c.Paths.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["SWDICT_ROOT"] = c.Paths.Root

	c.Paths.Data = expandVars(c.Paths.Data, vars)
	c.Source.Path = expandVars(c.Source.Path, vars)
	c.Source.DSN = expandVars(c.Source.DSN, vars)
	c.Storage.S3.Endpoint = expandVars(c.Storage.S3.Endpoint, vars)
	c.Storage.S3.AccessKey = expandVars(c.Storage.S3.AccessKey, vars)
	c.Storage.S3.SecretKey = expandVars(c.Storage.S3.SecretKey, vars)
	c.Storage.S3.Bucket = expandVars(c.Storage.S3.Bucket, vars)
	c.Storage.S3.Prefix = expandVars(c.Storage.S3.Prefix, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. vars take precedence
// over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}

	switch c.Source.Driver {
	case DriverSQLite:
		if c.Source.Path == "" {
			errs = append(errs, fmt.Errorf("source.path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Source.DSN == "" {
			errs = append(errs, fmt.Errorf("source.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.driver must be one of: %v", []string{DriverSQLite, DriverPostgres}))
	}

	switch c.Storage.Backend {
	case BackendDir:
		if c.Paths.Data == "" {
			errs = append(errs, fmt.Errorf("paths.data is required for the dir storage backend"))
		}
	case BackendS3:
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage.s3.endpoint and storage.s3.bucket are required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be one of: %v", []string{BackendDir, BackendS3}))
	}

	if c.Repository.Snapshot == "" {
		errs = append(errs, fmt.Errorf("repository.snapshot is required"))
	}
	if _, err := snapshot.ParseCompressionTag(c.Repository.Compression); err != nil {
		errs = append(errs, fmt.Errorf("repository.compression: %w", err))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}
	formats := []string{"auto", "text", "json"}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the root and data directories if they don't
// exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.Data} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
