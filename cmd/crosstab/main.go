package main

import (
	"os"

	"github.com/theirongolddev/crosstab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
