package main

import (
	"os"

	"github.com/msto63/pratt/cmd/pratt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
