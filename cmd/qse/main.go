package main

import (
	"os"

	"github.com/mrityu75/guardian-bed-treehacks/cmd/qse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
