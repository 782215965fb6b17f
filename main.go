package main

import (
	"os"

	"github.com/16205/pmereporter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
