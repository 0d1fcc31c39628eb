// Package main implements the spinmodel CLI tool.
//
// spinmodel runs the built-in model scenarios for the spin mutex under the
// interleaving explorer and reports whether each one behaved as expected:
//
//  1. exclusion: two threads increment under the mutex, no race, no lost update
//  2. visibility: a value written under the mutex is seen by the next holder
//  3. relaxed: a lock without acquire/release ordering must be reported as a race
//
// Usage:
//
//	spinmodel check                  # Exhaustive search
//	spinmodel check -preemptions 2   # Bounded search
//	spinmodel check -random 1000     # Random schedules
//	spinmodel version                # Show version information
//
// Exploration limits can also be set with the SPINCELL_* environment
// variables; flags take precedence.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]

	switch command {
	case "check":
		return checkCommand(args[1:], stdout, stderr)
	case "version", "--version":
		return versionCommand(args[1:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 1
	}
}

//nolint:errcheck // Usage output is best-effort.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `spinmodel - model checker for the spincell primitives

USAGE:
    spinmodel <command> [arguments]

COMMANDS:
    check      Explore the built-in scenarios
    version    Show version information
    help       Show this help message

CHECK FLAGS:
    -preemptions N    Preemption bound (-1 = unbounded)
    -random N         Run N random schedules instead of an exhaustive search
    -seed S           Seed for -random
    -max-branches N   Scheduling decisions allowed per execution
    -v                Print each scenario's report

VERSION FLAGS:
    -require vX.Y.Z   Fail unless this version is compatible

ENVIRONMENT:
    SPINCELL_PREEMPTION_BOUND, SPINCELL_MAX_BRANCHES, SPINCELL_MAX_EXECUTIONS,
    SPINCELL_ITERATIONS, SPINCELL_SEED
`)
}
