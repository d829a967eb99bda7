// Package main is the entry point for the cmti CLI binary.
package main

import (
	"os"

	"github.com/djewell11/cmti-tools/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
