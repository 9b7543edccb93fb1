// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/version"
)

// Root builds and returns the complete swdict command tree.
func (a *App) Root() *cli.Command {
	return &cli.Command{
		Name: "swdict",
		Description: `swdict: SignWriting sign dictionary.

Convert SSS symbol codes, build the category-partitioned symbol index
and the sign repository from the relational dictionary, and look signs
up by id, gloss, or name.`,
		HelpOutput: a.Stderr,
		Subcommands: []*cli.Command{
			a.sssCommand(),
			a.indexCommand(),
			a.dictCommand(),
			a.markupCommand(),
			a.versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Pack an SSS code",
				Command:     "swdict sss pack 01-05-001-01-01-01",
			},
			{
				Description: "Build the index and the repository from the SQLite dictionary",
				Command:     "swdict dict build --reindex --config swdict.yaml",
			},
			{
				Description: "Look up every MOTHER sign with its symbol codes",
				Command:     "swdict dict gloss MOTHER --sss",
			},
			{
				Description: "Use S3 credentials from a dotenv file",
				Command:     "swdict dict load --config prod.yaml --env-file /etc/swdict/s3.env",
			},
		},
	}
}

func (a *App) versionCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
		Full bool
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			params.Bind(flagSet)
			flagSet.BoolVar(&params.Full, "full", false, "include Go version and platform")
			return flagSet
		},
		Run: func(_ context.Context, _ []string) error {
			if done, err := params.EmitJSON(a.Stdout, version.Get()); done {
				return err
			}
			if params.Full {
				fmt.Fprintf(a.Stdout, "swdict %s\n", version.Full())
			} else {
				fmt.Fprintf(a.Stdout, "swdict %s\n", version.Info())
			}
			return nil
		},
	}
}
