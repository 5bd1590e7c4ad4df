package main

import (
	"os"

	"github.com/rfmkit-dev/rfmkit/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
