package main

import (
	"os"

	"github.com/buker/convey/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
