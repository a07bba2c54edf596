package main

import (
	"os"

	"github.com/insightdelivered/statement-flagger/internal/commands"
)

const version = "1.0.0"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
