package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/kolkov/spincell/model"
)

// checkCommand implements the 'spinmodel check' command.
//
// Every scenario is explored with the same configuration. A scenario fails
// when its outcome differs from the expected one: a race (or any other
// failure) in a race-free scenario, or no race in a negative control.
//
// Example:
//
//	spinmodel check -preemptions 2 -v
func checkCommand(args []string, stdout, stderr io.Writer) int {
	cfg, verbose, err := parseCheckArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	failed := 0
	for _, s := range scenarios {
		c := cfg
		if verbose {
			c.Output = stdout
		}

		report, err := model.Check(s.fn, c)
		if report == nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}

		var race *model.RaceError
		gotRace := errors.As(err, &race)

		status := "ok"
		switch {
		case s.wantRace && !gotRace:
			status = "FAIL (expected a race)"
			failed++
		case !s.wantRace && err != nil:
			status = fmt.Sprintf("FAIL (%v)", err)
			failed++
		}
		fmt.Fprintf(stdout, "%-12s %-6d executions  %s\n", s.name, report.Executions, status)
		if verbose {
			fmt.Fprintf(stdout, "             %s\n", s.about)
		}
	}

	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d scenarios failed\n", failed, len(scenarios))
		return 1
	}
	return 0
}

// parseCheckArgs builds the exploration config: environment first, then
// flags.
func parseCheckArgs(args []string, stderr io.Writer) (model.Config, bool, error) {
	cfg, err := model.ConfigFromEnv()
	if err != nil {
		return model.Config{}, false, err
	}

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.PreemptionBound, "preemptions", cfg.PreemptionBound, "preemption bound (-1 = unbounded)")
	fs.IntVar(&cfg.Iterations, "random", cfg.Iterations, "number of random schedules (0 = exhaustive)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for -random")
	fs.IntVar(&cfg.MaxBranches, "max-branches", cfg.MaxBranches, "scheduling decisions per execution")
	verbose := fs.Bool("v", false, "print each scenario's report")

	if err := fs.Parse(args); err != nil {
		return model.Config{}, false, err
	}
	if fs.NArg() > 0 {
		return model.Config{}, false, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, *verbose, cfg.Validate()
}
