// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/signsource"
	"github.com/bureau-foundation/swdict/lib/sss"
	"github.com/bureau-foundation/swdict/lib/symbolindex"
)

func (a *App) indexCommand() *cli.Command {
	return &cli.Command{
		Name:    "index",
		Summary: "Build and query the symbol index",
		Description: `The symbol index maps SSS codes to dense ids in three partitions:
handshape (category 1), movement (categories 2 and 3), and head-face
(categories 4 and 5). Each partition is one snapshot in the data
directory or S3 prefix.`,
		Subcommands: []*cli.Command{
			a.indexBuildCommand(),
			a.indexResolveCommand(),
			a.indexReverseCommand(),
			a.indexStatsCommand(),
		},
	}
}

// partitionCount is one partition's size in command output.
type partitionCount struct {
	Partition string `json:"partition"`
	Snapshot  string `json:"snapshot"`
	Entries   int    `json:"entries"`
}

func partitionCounts(index *symbolindex.Index) []partitionCount {
	counts := make([]partitionCount, 0, len(symbolindex.Partitions))
	for _, partition := range symbolindex.Partitions {
		counts = append(counts, partitionCount{
			Partition: partition.String(),
			Snapshot:  partition.SnapshotName(),
			Entries:   index.Len(partition),
		})
	}
	return counts
}

func (a *App) writePartitionCounts(counts []partitionCount) {
	for _, count := range counts {
		fmt.Fprintf(a.Stdout, "%s\t%d\t%s\n", count.Partition, count.Entries, count.Snapshot)
	}
}

// buildIndex assigns ids to every distinct code in source and writes
// the three partition snapshots. Malformed codes and codes whose
// category has no partition are skipped with a warning.
func (e *environment) buildIndex(ctx context.Context, source signsource.Source) (*symbolindex.Index, error) {
	tag, err := e.compression()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	codes, err := source.DistinctSSS(ctx)
	if err != nil {
		return nil, err
	}

	builder := symbolindex.NewBuilder()
	skipped := 0
	for _, code := range codes {
		_, ok, err := builder.AddText(code)
		if errors.Is(err, sss.ErrFormat) {
			e.logger.Warn("skipping malformed SSS", "sss", code, "error", err)
			skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			e.logger.Warn("skipping SSS outside the indexed categories", "sss", code)
			skipped++
		}
	}

	index, err := builder.Build(symbolindex.Config{
		Store:            e.store,
		Logger:           e.logger,
		ReverseCacheSize: e.config.Index.ReverseCacheSize,
	})
	if err != nil {
		return nil, err
	}
	if err := index.Save(ctx, e.store, tag); err != nil {
		return nil, err
	}

	e.logger.Info("symbol index built",
		"codes", len(codes),
		"skipped", skipped,
		"handshape", index.Len(symbolindex.Handshape),
		"movement", index.Len(symbolindex.Movement),
		"head_face", index.Len(symbolindex.HeadFace),
		"compression", tag.String(),
		"duration", time.Since(start),
	)
	return index, nil
}

func (a *App) indexBuildCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "build",
		Summary: "Build the partition snapshots from the relational source",
		Usage:   "swdict index build [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("build")
			params.Bind(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			env, err := a.loadEnvironment("index/build")
			if err != nil {
				return err
			}
			source, err := env.openSource(ctx)
			if err != nil {
				return err
			}
			defer source.Close()

			index, err := env.buildIndex(ctx, source)
			if err != nil {
				return err
			}
			counts := partitionCounts(index)
			if done, err := params.EmitJSON(a.Stdout, counts); done {
				return err
			}
			a.writePartitionCounts(counts)
			return nil
		},
	}
}

func (a *App) indexStatsCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "stats",
		Summary: "Print the number of entries in each partition",
		Usage:   "swdict index stats [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("stats")
			params.Bind(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			env, err := a.loadEnvironment("index/stats")
			if err != nil {
				return err
			}
			index, err := env.loadIndex(ctx)
			if err != nil {
				return err
			}
			counts := partitionCounts(index)
			if done, err := params.EmitJSON(a.Stdout, counts); done {
				return err
			}
			a.writePartitionCounts(counts)
			return nil
		},
	}
}

// resolveResult is one row of "index resolve" output.
type resolveResult struct {
	SSS       string `json:"sss"`
	Found     bool   `json:"found"`
	Partition string `json:"partition,omitempty"`
	Category  int    `json:"category,omitempty"`
	ID        int    `json:"id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (a *App) indexResolveCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "resolve",
		Summary: "Resolve SSS codes to index ids",
		Description: `Resolve each SSS code to its id within the partition its category
selects. Exits 1 if any code is malformed or not in the index.`,
		Usage: "swdict index resolve <code>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("resolve")
			params.Bind(flagSet)
			return flagSet
		},
		Examples: []cli.Example{
			{Command: "swdict index resolve 01-05-001-01-01-01 04-01-001-01-01-01"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one SSS code is required")
			}
			env, err := a.loadEnvironment("index/resolve")
			if err != nil {
				return err
			}
			index, err := env.loadIndex(ctx)
			if err != nil {
				return err
			}

			results := make([]resolveResult, 0, len(args))
			missed := false
			for _, code := range args {
				result := resolveResult{SSS: code}
				resolution, ok, err := index.Resolve(ctx, sss.FromText(code))
				switch {
				case errors.Is(err, sss.ErrFormat):
					result.Error = err.Error()
					missed = true
				case err != nil:
					return err
				case !ok:
					missed = true
				default:
					result.Found = true
					result.Partition = resolution.Partition.String()
					result.Category = resolution.Category
					result.ID = resolution.ID
				}
				results = append(results, result)
			}

			done, err := params.EmitJSON(a.Stdout, results)
			if err != nil {
				return err
			}
			if !done {
				for _, result := range results {
					switch {
					case result.Error != "":
						fmt.Fprintf(a.Stdout, "%s\tmalformed\n", result.SSS)
					case !result.Found:
						fmt.Fprintf(a.Stdout, "%s\tnot found\n", result.SSS)
					default:
						fmt.Fprintf(a.Stdout, "%s\t%s\t%d\n", result.SSS, result.Partition, result.ID)
					}
				}
			}
			if missed {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func (a *App) indexReverseCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "reverse",
		Summary: "Resolve an index id back to its SSS code",
		Usage:   "swdict index reverse <id> <category> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("reverse")
			params.Bind(flagSet)
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "First handshape symbol", Command: "swdict index reverse 1 1"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: swdict index reverse <id> <category>")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			category, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid category %q: %w", args[1], err)
			}

			env, err := a.loadEnvironment("index/reverse")
			if err != nil {
				return err
			}
			index, err := env.loadIndex(ctx)
			if err != nil {
				return err
			}
			code, ok, err := index.ReverseResolve(ctx, id, category)
			if err != nil {
				return err
			}

			result := struct {
				ID       int    `json:"id"`
				Category int    `json:"category"`
				Found    bool   `json:"found"`
				SSS      string `json:"sss,omitempty"`
			}{ID: id, Category: category, Found: ok, SSS: code}
			done, err := params.EmitJSON(a.Stdout, result)
			if err != nil {
				return err
			}
			switch {
			case done:
			case ok:
				fmt.Fprintln(a.Stdout, code)
			default:
				fmt.Fprintln(a.Stdout, "not found")
			}
			if !ok {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
