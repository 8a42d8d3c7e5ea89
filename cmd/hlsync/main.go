package main

import (
	"os"

	"github.com/Yus314/MoLe-sub005/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
