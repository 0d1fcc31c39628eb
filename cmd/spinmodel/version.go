package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/kolkov/spincell/model"
)

// versionCommand implements the 'spinmodel version' command.
//
// With -require it exits 1 when the installed version cannot serve code
// written against the required one.
func versionCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	require := fs.String("require", "", "required version (vX.Y.Z)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	info := model.GetInfo()
	fmt.Fprintf(stdout, "spinmodel version %s\n", info.Version)
	fmt.Fprintf(stdout, "  race detection: %s\n", info.Algorithm)
	fmt.Fprintf(stdout, "  exploration:    %s, up to %d threads\n", info.Exploration, info.MaxThreads)

	if *require == "" {
		return 0
	}
	ok, err := model.Compatible(*require)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if !ok {
		fmt.Fprintf(stderr, "version %s is not compatible with required %s\n", info.Version, *require)
		return 1
	}
	return 0
}
