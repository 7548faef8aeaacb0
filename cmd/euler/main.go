package main

import (
	"os"

	"github.com/msto63/euler/cmd/euler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
