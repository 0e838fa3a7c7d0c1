package main

import (
	"os"

	"github.com/idilsaglam/tierlist/internal/cli"
)

func main() {
	// Flags, subcommands and exit codes are handled by the cli package.
	os.Exit(cli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
