// Package main is the entry point for the explorer CLI binary.
package main

import (
	"os"

	cli "parquet-explorer/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
