// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Command geyserbench runs the multi-source transaction-stream comparator
// (spec.md §6): a --config flag, a --trace flag enabling per-endpoint trace
// logging, a default "run" action, and a "dumpconfig" command that prints
// the resolved configuration.
package main

import (
	"context"
	"fmt"
	"os"

	colorable "github.com/mattn/go-colorable"
	"gopkg.in/urfave/cli.v1"

	"github.com/corvus-labs/geyserbench/config"
	gblog "github.com/corvus-labs/geyserbench/log"
	"github.com/corvus-labs/geyserbench/report"
	"github.com/corvus-labs/geyserbench/supervisor"
)

var configFileFlag = cli.StringFlag{
	Name:  "config",
	Usage: "TOML configuration file",
	Value: "geyserbench.toml",
}

var traceFlag = cli.BoolFlag{
	Name:  "trace",
	Usage: "enable per-endpoint trace logging",
}

func main() {
	app := cli.NewApp()
	app.Name = "geyserbench"
	app.Usage = "multi-source Solana transaction-stream comparator"
	app.Flags = []cli.Flag{configFileFlag, traceFlag}
	app.Action = runAction
	app.Commands = []cli.Command{
		{
			Name:   "dumpconfig",
			Usage:  "show the resolved configuration as TOML",
			Action: dumpConfigAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	gblog.SetTrace(ctx.GlobalBool(traceFlag.Name))

	cfg, err := config.LoadOrCreate(ctx.GlobalString(configFileFlag.Name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}

	result, err := supervisor.Run(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}

	report.WriteTable(colorable.NewColorableStdout(), result)
	return nil
}

func dumpConfigAction(ctx *cli.Context) error {
	cfg, err := config.LoadOrCreate(ctx.GlobalString(configFileFlag.Name))
	if err != nil {
		return err
	}
	return config.WriteTOML(os.Stdout, cfg)
}
