// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/sign"
	"github.com/bureau-foundation/swdict/lib/signdict"
	"github.com/bureau-foundation/swdict/lib/symbolindex"
)

func (a *App) dictCommand() *cli.Command {
	return &cli.Command{
		Name:    "dict",
		Summary: "Build and query the sign repository",
		Description: `The sign repository holds every sign of the dictionary with its
symbols resolved against the symbol index. It is built from the
relational source and persisted as a single snapshot.`,
		Subcommands: []*cli.Command{
			a.dictBuildCommand(),
			a.dictLoadCommand(),
			a.dictShowCommand(),
			a.dictGlossCommand(),
			a.dictNameCommand(),
			a.dictListCommand(),
			a.dictVocabCommand(),
		},
		Examples: []cli.Example{
			{Description: "Rebuild the index and the repository from swdic.db", Command: "swdict dict build --reindex"},
			{Description: "Show a sign with its symbol codes", Command: "swdict dict show 42 --sss"},
			{Description: "Find the homographs of a gloss", Command: "swdict dict gloss MOTHER"},
		},
	}
}

func (a *App) dictBuildCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
		Reindex bool
	}
	return &cli.Command{
		Name:    "build",
		Summary: "Build the repository snapshot from the relational source",
		Description: `Read every sign from the relational source, resolve its spelling
against the symbol index, and write the repository snapshot.

Aliases, compounds and signs without spelling rows are skipped. With
--reindex the partition snapshots are rebuilt from the same source
first.`,
		Usage: "swdict dict build [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("build")
			params.Bind(flagSet)
			flagSet.BoolVar(&params.Reindex, "reindex", false, "rebuild the symbol index from the source first")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			env, err := a.loadEnvironment("dict/build")
			if err != nil {
				return err
			}
			tag, err := env.compression()
			if err != nil {
				return err
			}
			source, err := env.openSource(ctx)
			if err != nil {
				return err
			}
			defer source.Close()

			var index *symbolindex.Index
			if params.Reindex {
				index, err = env.buildIndex(ctx, source)
			} else {
				index, err = env.loadIndex(ctx)
			}
			if err != nil {
				return err
			}

			start := time.Now()
			repository := signdict.New(signdict.Config{Logger: env.logger})
			stats, err := repository.BuildFromSource(ctx, source, index)
			if err != nil {
				return err
			}
			if err := repository.SaveSnapshot(ctx, env.store, env.config.Repository.Snapshot, tag); err != nil {
				return err
			}
			env.logger.Info("sign repository written",
				"snapshot", env.config.Repository.Snapshot,
				"signs", repository.Count(),
				"compression", tag.String(),
				"duration", time.Since(start),
			)

			if done, err := params.EmitJSON(a.Stdout, stats); done {
				return err
			}
			fmt.Fprintf(a.Stdout, "signs\t%d\n", stats.Kept)
			fmt.Fprintf(a.Stdout, "rows\t%d\n", stats.Rows)
			fmt.Fprintf(a.Stdout, "aliases\t%d\n", stats.Aliases)
			fmt.Fprintf(a.Stdout, "compounds\t%d\n", stats.Compounds)
			fmt.Fprintf(a.Stdout, "empty\t%d\n", stats.Empty)
			fmt.Fprintf(a.Stdout, "dropped symbols\t%d\n", stats.DroppedSymbols)
			return nil
		},
	}
}

// loadResult is the output of "dict load".
type loadResult struct {
	Signs    int    `json:"signs"`
	Duration string `json:"duration"`
}

func (a *App) dictLoadCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "load",
		Summary: "Load the repository snapshot and report how long it took",
		Usage:   "swdict dict load [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("load")
			params.Bind(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			env, err := a.loadEnvironment("dict/load")
			if err != nil {
				return err
			}
			start := time.Now()
			repository, err := env.loadRepository(ctx)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			env.logger.Debug("sign repository loaded", "signs", repository.Count(), "duration", elapsed)

			result := loadResult{Signs: repository.Count(), Duration: elapsed.String()}
			if done, err := params.EmitJSON(a.Stdout, result); done {
				return err
			}
			fmt.Fprintf(a.Stdout, "loaded %d signs in %s\n", result.Signs, result.Duration)
			return nil
		},
	}
}

// signView is a sign as printed by the lookup commands. Codes holds
// the reverse-resolved SSS of each symbol when --sss is set.
type signView struct {
	sign.Sign
	Name  string   `json:"name"`
	Codes []string `json:"codes,omitempty"`
}

// lookupParams are shared by the commands that print signs.
type lookupParams struct {
	cli.JSONOutput
	Codes bool
}

func (a *App) lookupFlags(name string, params *lookupParams) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		flagSet := a.flagSet(name)
		params.Bind(flagSet)
		flagSet.BoolVar(&params.Codes, "sss", false, "resolve symbol ids back to SSS codes")
		return flagSet
	}
}

// viewSigns converts signs for output, resolving symbol codes when
// requested. Symbols the index cannot reverse print as "?".
func (e *environment) viewSigns(ctx context.Context, signs []sign.Sign, withCodes bool) ([]signView, error) {
	var index *symbolindex.Index
	if withCodes {
		var err error
		if index, err = e.loadIndex(ctx); err != nil {
			return nil, err
		}
	}

	views := make([]signView, 0, len(signs))
	for _, s := range signs {
		view := signView{Sign: s, Name: s.Name()}
		if index != nil {
			view.Codes = make([]string, len(s.Symbols))
			for i, symbol := range s.Symbols {
				code, ok, err := index.ReverseResolve(ctx, symbol.ID, symbol.Category)
				if err != nil {
					return nil, err
				}
				if !ok {
					code = "?"
				}
				view.Codes[i] = code
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func writeSign(w io.Writer, view signView) {
	fmt.Fprintf(w, "%d\t%s\t%d symbols\n", view.ID, view.Name, len(view.Symbols))
	for i, symbol := range view.Symbols {
		fmt.Fprintf(w, "  category=%d id=%d x=%d y=%d", symbol.Category, symbol.ID, symbol.X, symbol.Y)
		if i < len(view.Codes) {
			fmt.Fprintf(w, " sss=%s", view.Codes[i])
		}
		fmt.Fprintln(w)
	}
}

// printSigns writes views in text or JSON form. An empty result
// prints "no signs" and exits 1.
func (a *App) printSigns(params *lookupParams, views []signView) error {
	done, err := params.EmitJSON(a.Stdout, views)
	if err != nil {
		return err
	}
	if !done {
		if len(views) == 0 {
			fmt.Fprintln(a.Stdout, "no signs")
		}
		for _, view := range views {
			writeSign(a.Stdout, view)
		}
	}
	if len(views) == 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// lookupCommand builds a command that loads the repository and prints
// the signs selected by find.
func (a *App) lookupCommand(name, summary, usage string, find func(*signdict.Repository, []string) ([]sign.Sign, error)) *cli.Command {
	var params lookupParams
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
		Flags:   a.lookupFlags(name, &params),
		Run: func(ctx context.Context, args []string) error {
			env, err := a.loadEnvironment("dict/" + name)
			if err != nil {
				return err
			}
			repository, err := env.loadRepository(ctx)
			if err != nil {
				return err
			}
			signs, err := find(repository, args)
			if err != nil {
				return err
			}
			views, err := env.viewSigns(ctx, signs, params.Codes)
			if err != nil {
				return err
			}
			return a.printSigns(&params, views)
		},
	}
}

func (a *App) dictShowCommand() *cli.Command {
	return a.lookupCommand("show", "Show a sign by id", "swdict dict show <id> [flags]",
		func(repository *signdict.Repository, args []string) ([]sign.Sign, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("usage: swdict dict show <id>")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid sign id %q: %w", args[0], err)
			}
			found, ok := repository.ByID(id)
			if !ok {
				return nil, nil
			}
			return []sign.Sign{found}, nil
		})
}

func (a *App) dictGlossCommand() *cli.Command {
	return a.lookupCommand("gloss", "List the signs with a gloss", "swdict dict gloss <gloss> [flags]",
		func(repository *signdict.Repository, args []string) ([]sign.Sign, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("usage: swdict dict gloss <gloss>")
			}
			return repository.ByGloss(args[0]), nil
		})
}

func (a *App) dictNameCommand() *cli.Command {
	return a.lookupCommand("name", "List the signs with a gloss and homograph tag", "swdict dict name <gloss><tag> [flags]",
		func(repository *signdict.Repository, args []string) ([]sign.Sign, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("usage: swdict dict name <gloss><tag>")
			}
			return repository.ByName(args[0]), nil
		})
}

func (a *App) dictListCommand() *cli.Command {
	return a.lookupCommand("list", "List every sign in repository order", "swdict dict list [flags]",
		func(repository *signdict.Repository, args []string) ([]sign.Sign, error) {
			if len(args) > 0 {
				return nil, fmt.Errorf("unexpected arguments: %v", args)
			}
			return repository.Signs(), nil
		})
}

// vocabularyEntry maps a sign id to its dense vocabulary serial.
type vocabularyEntry struct {
	SignID int `json:"sign_id"`
	Serial int `json:"serial"`
}

func (a *App) dictVocabCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "vocab",
		Summary: "Print the sign id to vocabulary serial mapping",
		Usage:   "swdict dict vocab [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("vocab")
			params.Bind(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			env, err := a.loadEnvironment("dict/vocab")
			if err != nil {
				return err
			}
			repository, err := env.loadRepository(ctx)
			if err != nil {
				return err
			}

			vocabulary := repository.VocabularyIndex()
			entries := make([]vocabularyEntry, 0, len(vocabulary))
			for signID, serial := range vocabulary {
				entries = append(entries, vocabularyEntry{SignID: signID, Serial: serial})
			}
			slices.SortFunc(entries, func(x, y vocabularyEntry) int { return cmp.Compare(x.Serial, y.Serial) })

			if done, err := params.EmitJSON(a.Stdout, entries); done {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintf(a.Stdout, "%d\t%d\n", entry.SignID, entry.Serial)
			}
			return nil
		},
	}
}
