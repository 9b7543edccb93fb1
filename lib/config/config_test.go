// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "swdict.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Paths.Data != cfg.Paths.Root+"/data" {
		t.Errorf("expected data under root, got %s (root %s)", cfg.Paths.Data, cfg.Paths.Root)
	}
	if cfg.Source.Driver != DriverSQLite || cfg.Source.Path != cfg.Paths.Root+"/data/swdic.db" {
		t.Errorf("unexpected source defaults: %+v", cfg.Source)
	}
	if cfg.Storage.Backend != BackendDir {
		t.Errorf("expected dir backend, got %s", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresSwdictConfig(t *testing.T) {
	t.Setenv("SWDICT_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SWDICT_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "SWDICT_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithSwdictConfig(t *testing.T) {
	t.Setenv("SWDICT_CONFIG", writeConfig(t, `
environment: production
paths:
  root: /srv/swdict
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("expected environment=production, got %s", cfg.Environment)
	}
	if cfg.Paths.Root != "/srv/swdict" {
		t.Errorf("expected root=/srv/swdict, got %s", cfg.Paths.Root)
	}
}

func TestLoadFile_DataFollowsRoot(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
paths:
  root: /custom/root
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Paths.Data != "/custom/root/data" {
		t.Errorf("expected data=/custom/root/data, got %s", cfg.Paths.Data)
	}
	if cfg.Source.Path != "/custom/root/data/swdic.db" {
		t.Errorf("expected source path under root, got %s", cfg.Source.Path)
	}
}

func TestLoadFile_AllSections(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
environment: development
paths:
  root: /r
  data: /snapshots
source:
  driver: postgres
  dsn: postgres://swdict@db/swdict
storage:
  backend: s3
  s3:
    endpoint: minio:9000
    bucket: signs
    prefix: v1
index:
  reverse_cache_size: 64
repository:
  snapshot: dict.snap
  compression: lz4
log:
  level: debug
  format: text
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Paths.Data != "/snapshots" {
		t.Errorf("data = %s", cfg.Paths.Data)
	}
	if cfg.Source.Driver != DriverPostgres || cfg.Source.DSN != "postgres://swdict@db/swdict" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Storage.Backend != BackendS3 || cfg.Storage.S3.Bucket != "signs" || cfg.Storage.S3.Prefix != "v1" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Index.ReverseCacheSize != 64 {
		t.Errorf("reverse_cache_size = %d", cfg.Index.ReverseCacheSize)
	}
	if cfg.Repository.Snapshot != "dict.snap" || cfg.Repository.Compression != "lz4" {
		t.Errorf("repository = %+v", cfg.Repository)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
environment: production
paths:
  root: /base
production:
  paths:
    root: /prod
  storage:
    backend: s3
    s3:
      endpoint: s3.example.com
      bucket: prod-signs
      use_ssl: true
development:
  paths:
    root: /dev
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Paths.Root != "/prod" {
		t.Errorf("expected production root, got %s", cfg.Paths.Root)
	}
	if cfg.Paths.Data != "/prod/data" {
		t.Errorf("expected data to follow the overridden root, got %s", cfg.Paths.Data)
	}
	if cfg.Storage.Backend != BackendS3 || !cfg.Storage.S3.UseSSL || cfg.Storage.S3.Bucket != "prod-signs" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	// An explicit production section replaces the implicit defaults.
	if cfg.Log.Format != "auto" {
		t.Errorf("expected log format from base, got %s", cfg.Log.Format)
	}
}

func TestLoadFile_ProductionDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "environment: production\n"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("expected JSON info logs in production, got %+v", cfg.Log)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("SWDICT_TEST_SECRET", "hunter2")
	t.Setenv("SWDICT_TEST_EMPTY", "")

	vars := map[string]string{"SWDICT_ROOT": "/root/swdict", "HOME": "/home/user"}
	tests := []struct {
		input    string
		expected string
	}{
		{"${HOME}/data", "/home/user/data"},
		{"${SWDICT_ROOT}/data", "/root/swdict/data"},
		{"${SWDICT_TEST_SECRET}", "hunter2"},
		{"${SWDICT_TEST_EMPTY:-fallback}", "fallback"},
		{"${SWDICT_TEST_UNSET_VARIABLE:-/default}", "/default"},
		{"${SWDICT_TEST_UNSET_VARIABLE}", ""},
		{"plain/path", "plain/path"},
		{"${HOME}/${SWDICT_ROOT}", "/home/user//root/swdict"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.expected {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.expected)
		}
	}
}

func TestLoadFile_ExpandsCredentials(t *testing.T) {
	t.Setenv("SWDICT_S3_ACCESS_KEY", "access")
	t.Setenv("SWDICT_S3_SECRET_KEY", "secret")
	cfg, err := LoadFile(writeConfig(t, `
storage:
  backend: s3
  s3:
    endpoint: localhost:9000
    access_key: ${SWDICT_S3_ACCESS_KEY}
    secret_key: ${SWDICT_S3_SECRET_KEY}
    bucket: swdict
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Storage.S3.AccessKey != "access" || cfg.Storage.S3.SecretKey != "secret" {
		t.Errorf("credentials not expanded: %+v", cfg.Storage.S3)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(writeConfig(t, "paths: [unclosed\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"root", func(c *Config) { c.Paths.Root = "" }, "paths.root"},
		{"driver", func(c *Config) { c.Source.Driver = "oracle" }, "source.driver"},
		{"sqlite path", func(c *Config) { c.Source.Path = "" }, "source.path"},
		{"postgres dsn", func(c *Config) { c.Source.Driver = DriverPostgres }, "source.dsn"},
		{"backend", func(c *Config) { c.Storage.Backend = "ftp" }, "storage.backend"},
		{"s3 bucket", func(c *Config) { c.Storage.Backend = BackendS3 }, "storage.s3"},
		{"data", func(c *Config) { c.Paths.Data = "" }, "paths.data"},
		{"compression", func(c *Config) { c.Repository.Compression = "brotli" }, "repository.compression"},
		{"snapshot", func(c *Config) { c.Repository.Snapshot = "" }, "repository.snapshot"},
		{"level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Errorf("error %q does not mention %q", err.Error(), test.message)
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "swdict")
	cfg := Default()
	cfg.Paths.Root = root
	cfg.Paths.Data = filepath.Join(root, "data")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.Data); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}
