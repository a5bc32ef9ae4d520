package main

import (
	"os"

	"github.com/matzehuels/pivotpress/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
