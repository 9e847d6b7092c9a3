package main

import (
	"os"

	"github.com/AngelCh415/clinicpulse/cmd/clinicctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
