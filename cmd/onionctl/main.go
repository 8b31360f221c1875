package main

import (
	"os"

	"github.com/HannahMarsh/onion-relay/cmd/onionctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
