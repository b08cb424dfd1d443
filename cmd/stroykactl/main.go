package main

import (
	"os"

	"stroyka/cmd/stroykactl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
