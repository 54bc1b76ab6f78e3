package main

import (
	"os"

	"salesboard/internal/commands"
	"salesboard/web"
)

func main() {
	if err := commands.NewRootCommand(web.Static).Execute(); err != nil {
		os.Exit(1)
	}
}
