// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/sign"
)

func (a *App) markupCommand() *cli.Command {
	var params lookupParams
	return &cli.Command{
		Name:    "markup",
		Summary: "Assemble a sign from a markup document",
		Description: `Parse a sign markup document and resolve its symbols against the
symbol index. Only the first sign of the document is used. Symbols
whose code is malformed or not in the index are dropped.

With "-" or no argument the document is read from stdin.`,
		Usage: "swdict markup [<file>|-] [flags]",
		Flags: a.lookupFlags("markup", &params),
		Examples: []cli.Example{
			{Command: "swdict markup mother.swml --json"},
			{Command: "curl -s https://example.org/sign.swml | swdict markup -"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("at most one markup file is accepted")
			}
			env, err := a.loadEnvironment("markup")
			if err != nil {
				return err
			}
			index, err := env.loadIndex(ctx)
			if err != nil {
				return err
			}

			assembler := sign.NewAssembler(index, env.logger)
			var assembled sign.Sign
			if len(args) == 0 || args[0] == "-" {
				data, readErr := io.ReadAll(a.Stdin)
				if readErr != nil {
					return fmt.Errorf("reading stdin: %w", readErr)
				}
				assembled, err = assembler.FromMarkup(ctx, string(data))
			} else {
				assembled, err = assembler.FromFile(ctx, args[0])
			}
			if err != nil {
				return err
			}

			views, err := env.viewSigns(ctx, []sign.Sign{assembled}, params.Codes)
			if err != nil {
				return err
			}
			return a.printSigns(&params, views)
		},
	}
}
