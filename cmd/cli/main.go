// Package main is the entry point for the louslist CLI binary.
package main

import (
	"os"

	"louslist/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
