package main

import (
	"os"

	"github.com/SscSPs/general_ledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand(commands.DefaultAppFactory).Execute(); err != nil {
		os.Exit(1)
	}
}
