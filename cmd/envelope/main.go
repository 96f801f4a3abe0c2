package main

import (
	"os"

	"github.com/envelope-dev/envelope/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
