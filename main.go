// Package main is the entry point for the oroctl CLI
package main

import (
	"os"

	"github.com/tabhan/oro-product-manager/cmd"
	"github.com/tabhan/oro-product-manager/internal/output"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		cliErr := output.FromError(err)
		printer := output.NewPrinter(output.ResolveColors(output.ColorAuto, true))
		printer.FormatError(cliErr)
		os.Exit(cliErr.ExitCode)
	}
}
