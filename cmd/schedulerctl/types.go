package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	_ "github.com/bistack/scheduler/tasks/arithmetic"
	_ "github.com/bistack/scheduler/tasks/poseidon"
	_ "github.com/bistack/scheduler/tasks/stark"

	"github.com/bistack/scheduler/registry"
)

var typesCmd = cli.Command{
	Action: doTypes,
	Name:   "types",
	Usage:  "list every task type registered in this binary",
}

func doTypes(*cli.Context) error {
	for _, name := range registry.Names() {
		fmt.Println(name)
	}
	return nil
}
