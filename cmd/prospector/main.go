package main

import (
	"os"

	"github.com/nhle/prospector/cmd/prospector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
