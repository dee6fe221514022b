package main

import (
	"os"

	"github.com/brianquiz/brianquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
