// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/config"
	"github.com/bureau-foundation/swdict/lib/signdict"
	"github.com/bureau-foundation/swdict/lib/signsource"
	"github.com/bureau-foundation/swdict/lib/snapshot"
	"github.com/bureau-foundation/swdict/lib/symbolindex"
)

// App carries the process streams and the global flag values shared by
// every command in the tree.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	global globalOptions
}

type globalOptions struct {
	ConfigPath string
	EnvFile    string
	DataDir    string
	LogLevel   string
	LogFormat  string
}

// NewApp returns an App over the process streams.
func NewApp() *App {
	return &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// flagSet returns a fresh flag set for a leaf command with the global
// flags already registered.
func (a *App) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&a.global.ConfigPath, "config", "", "path to swdict.yaml (default: $SWDICT_CONFIG, else built-in defaults)")
	flagSet.StringVar(&a.global.EnvFile, "env-file", "", "load environment variables from this file before reading config")
	flagSet.StringVar(&a.global.DataDir, "data-dir", "", "override paths.data")
	flagSet.StringVar(&a.global.LogLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flagSet.StringVar(&a.global.LogFormat, "log-format", "", "override log.format (auto, text, json)")
	return flagSet
}

// environment is the per-invocation state resolved from the global
// flags and the configuration.
type environment struct {
	config *config.Config
	logger *slog.Logger
	store  snapshot.Store
}

// loadEnvironment loads configuration and builds the logger and store.
// Variables from --env-file are set before the config is read, so
// ${VAR} patterns in the file can refer to them. Variables already
// present in the process environment win.
func (a *App) loadEnvironment(command string) (*environment, error) {
	if a.global.EnvFile != "" {
		if err := godotenv.Load(a.global.EnvFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if a.global.DataDir != "" {
		cfg.Paths.Data = a.global.DataDir
	}
	if a.global.LogLevel != "" {
		cfg.Log.Level = a.global.LogLevel
	}
	if a.global.LogFormat != "" {
		cfg.Log.Format = a.global.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := cli.NewLogger(a.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logger = logger.With("command", command)

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	return &environment{config: cfg, logger: logger, store: store}, nil
}

func (a *App) loadConfig() (*config.Config, error) {
	switch {
	case a.global.ConfigPath != "":
		return config.LoadFile(a.global.ConfigPath)
	case os.Getenv("SWDICT_CONFIG") != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}

func newStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		s3 := cfg.Storage.S3
		return snapshot.NewS3Store(snapshot.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			UseSSL:    s3.UseSSL,
		})
	default:
		return snapshot.NewDirStore(cfg.Paths.Data)
	}
}

func (e *environment) compression() (snapshot.CompressionTag, error) {
	return snapshot.ParseCompressionTag(e.config.Repository.Compression)
}

// newIndex returns an unloaded index over the environment's store.
func (e *environment) newIndex() (*symbolindex.Index, error) {
	return symbolindex.New(symbolindex.Config{
		Store:            e.store,
		Logger:           e.logger,
		ReverseCacheSize: e.config.Index.ReverseCacheSize,
	})
}

// loadIndex returns the index with its three partitions in memory.
func (e *environment) loadIndex(ctx context.Context) (*symbolindex.Index, error) {
	index, err := e.newIndex()
	if err != nil {
		return nil, err
	}
	if err := index.Load(ctx); err != nil {
		return nil, err
	}
	return index, nil
}

// openSource opens the configured relational source. The caller
// closes it.
func (e *environment) openSource(ctx context.Context) (signsource.Source, error) {
	switch e.config.Source.Driver {
	case config.DriverPostgres:
		return signsource.OpenPostgres(ctx, e.config.Source.DSN)
	default:
		return signsource.OpenSQLite(ctx, signsource.SQLiteConfig{
			Path:   e.config.Source.Path,
			Logger: e.logger,
		})
	}
}

// loadRepository reads the repository snapshot.
func (e *environment) loadRepository(ctx context.Context) (*signdict.Repository, error) {
	repository := signdict.New(signdict.Config{Logger: e.logger})
	if err := repository.LoadSnapshot(ctx, e.store, e.config.Repository.Snapshot); err != nil {
		return nil, err
	}
	return repository, nil
}
