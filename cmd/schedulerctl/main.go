// Command schedulerctl drives a bidirectional-stack account from the
// command line: push a task, step the scheduler, inspect the stack.
// Its command-and-flags shape follows ct/driver/main.go's cli.App
// layout (spec's host surface has no CLI of its own — this is the
// in-repo operator tool a host embedding the engine would reach for
// during development).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "schedulerctl",
		Usage:     "bidirectional-stack execution engine driver",
		Copyright: "(c) 2026",
		Commands: []*cli.Command{
			&runCmd,
			&typesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
