package main

import (
	"fmt"
	"time"

	"github.com/dsnet/golib/unitconv"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/urfave/cli/v2"

	"github.com/bistack/scheduler/account"
	core "github.com/bistack/scheduler/corevm"
	"github.com/bistack/scheduler/scheduler"
	"github.com/bistack/scheduler/task"
	"github.com/bistack/scheduler/tasks/arithmetic"
)

// dispatchStats caches the step count observed the last time a given
// task kind was run in this process, the same small LRU the driver's
// issuesCollector would reach for if it needed to remember more than
// fits comfortably in an unbounded map — here bounded at a handful of
// entries since schedulerctl only ever runs one task kind per
// invocation, but process-long so a REPL-style wrapper could reuse it.
var dispatchStats, _ = lru.New[string, int](16)

var runCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "run a built-in arithmetic task to completion and print its result",
	ArgsUsage: "<add|mul|exp|fibonacci>",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "x", Usage: "first operand (add, mul)"},
		&cli.Uint64Flag{Name: "y", Usage: "second operand (add, mul)"},
		&cli.Uint64Flag{Name: "base", Usage: "base (exp)"},
		&cli.Uint64Flag{Name: "exponent", Usage: "exponent (exp)"},
		&cli.Uint64Flag{Name: "n", Usage: "index (fibonacci)"},
		&cli.IntFlag{Name: "max-steps", Usage: "abort if the task does not finish within this many steps", Value: 100000},
	},
}

func doRun(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("expected a task kind, use one of: add, mul, exp, fibonacci")
	}
	kind := c.Args().Get(0)

	acc := account.New()
	s := scheduler.New(acc.Stack())

	var encoded []byte
	switch kind {
	case "add":
		encoded = task.EncodeWithTag(arithmetic.AddTag(), arithmetic.NewAdd(c.Uint64("x"), c.Uint64("y")))
	case "mul":
		encoded = task.EncodeWithTag(arithmetic.MulTag(), arithmetic.NewMul(c.Uint64("x"), c.Uint64("y")))
	case "exp":
		encoded = task.EncodeWithTag(arithmetic.ExpTag(), arithmetic.NewExp(c.Uint64("base"), uint32(c.Uint64("exponent"))))
	case "fibonacci":
		encoded = task.EncodeWithTag(arithmetic.FibonacciTag(), &arithmetic.Fibonacci{N: uint32(c.Uint64("n"))})
	default:
		return fmt.Errorf("unknown task kind %q, use one of: add, mul, exp, fibonacci", kind)
	}

	if err := s.PushTask(encoded); err != nil {
		return err
	}

	start := time.Now()
	steps, err := s.RunToCompletion(c.Int("max-steps"))
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	dispatchStats.Add(kind, steps)

	result := acc.Stack().BorrowFront()
	fmt.Printf("result: %x\n", result)
	fmt.Printf("steps: %d in %s (%s steps/sec)\n", steps, elapsed,
		unitconv.FormatPrefix(float64(steps)/elapsed.Seconds(), unitconv.SI, 1))
	fmt.Printf("account capacity: %sB\n", unitconv.FormatPrefix(float64(core.Capacity), unitconv.IEC, 0))
	return nil
}
