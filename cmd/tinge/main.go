// Tinge - perceptual colour grouping
//
// Tinge collapses near-duplicate colours in an extracted palette into
// perceptually distinct groups, each with one representative swatch.
package main

import (
	"os"

	"github.com/jmylchreest/tinge/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
