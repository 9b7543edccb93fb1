// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/sss"
	"github.com/bureau-foundation/swdict/lib/symbolindex"
)

// codeInfo describes one SSS code in every form the codec knows.
type codeInfo struct {
	SSS       string     `json:"sss"`
	Packed    string     `json:"packed"`
	Category  int        `json:"category"`
	Partition string     `json:"partition,omitempty"`
	Fields    sss.Fields `json:"fields"`
}

func describeCode(key sss.Packed) codeInfo {
	info := codeInfo{
		SSS:      key.String(),
		Packed:   key.Hex(),
		Category: key.Category(),
		Fields:   key.Fields(),
	}
	if partition, ok := symbolindex.PartitionFor(info.Category); ok {
		info.Partition = partition.String()
	}
	return info
}

func (a *App) sssCommand() *cli.Command {
	return &cli.Command{
		Name:    "sss",
		Summary: "Convert SSS symbol codes",
		Description: `Convert between the SSS text form (CC-GG-BBB-VV-FF-RR) and the
4-byte packed form used as the symbol index key.

These commands need no configuration or data files.`,
		Subcommands: []*cli.Command{
			a.sssPackCommand(),
			a.sssUnpackCommand(),
			a.sssCategoryCommand(),
		},
	}
}

func (a *App) sssPackCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "pack",
		Summary: "Pack SSS text codes into hex keys",
		Usage:   "swdict sss pack <code>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			params.Bind(flagSet)
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Pack a handshape code", Command: "swdict sss pack 01-05-001-01-01-01"},
			{Description: "Short forms are zero-padded", Command: "swdict sss pack 1-5-1-1-1-1"},
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one SSS code is required")
			}
			infos := make([]codeInfo, 0, len(args))
			for _, code := range args {
				key, err := sss.Pack(code)
				if err != nil {
					return err
				}
				infos = append(infos, describeCode(key))
			}
			if done, err := params.EmitJSON(a.Stdout, infos); done {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(a.Stdout, "%s\t%s\n", info.SSS, info.Packed)
			}
			return nil
		},
	}
}

func (a *App) sssUnpackCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "unpack",
		Summary: "Unpack hex keys into SSS text codes",
		Usage:   "swdict sss unpack <hex>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unpack", pflag.ContinueOnError)
			params.Bind(flagSet)
			return flagSet
		},
		Examples: []cli.Example{
			{Command: "swdict sss unpack 15011101"},
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one packed key is required")
			}
			infos := make([]codeInfo, 0, len(args))
			for _, text := range args {
				key, err := sss.ParseHex(text)
				if err != nil {
					return err
				}
				infos = append(infos, describeCode(key))
			}
			if done, err := params.EmitJSON(a.Stdout, infos); done {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(a.Stdout, "%s\t%s\n", info.Packed, info.SSS)
			}
			return nil
		},
	}
}

func (a *App) sssCategoryCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "category",
		Summary: "Print the category and index partition of SSS codes",
		Usage:   "swdict sss category <code>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("category", pflag.ContinueOnError)
			params.Bind(flagSet)
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one SSS code is required")
			}
			infos := make([]codeInfo, 0, len(args))
			for _, code := range args {
				key, err := sss.FromText(code).Packed()
				if err != nil {
					return err
				}
				infos = append(infos, describeCode(key))
			}
			if done, err := params.EmitJSON(a.Stdout, infos); done {
				return err
			}
			for _, info := range infos {
				partition := info.Partition
				if partition == "" {
					partition = "-"
				}
				fmt.Fprintf(a.Stdout, "%s\t%d\t%s\n", info.SSS, info.Category, partition)
			}
			return nil
		},
	}
}
