package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/yiblet/lifesaver/internal/cli"
)

func main() {
	var args cli.Args
	p := arg.MustParse(&args)

	// Argument errors get the usage text as well.
	if err := args.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		p.WriteUsage(os.Stderr)
		os.Exit(1)
	}

	cliHandler, err := cli.NewWithArgs(&args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = cliHandler.Execute(&args)
	cliHandler.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
