package main

import (
	"os"

	"github.com/Cicolas/bao-bundler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
