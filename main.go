package main

import (
	"os"

	"github.com/ElisevanderPol/marl-homomorphic-networks/cmd"
	log "github.com/sirupsen/logrus"
)

// main entry point to the command line interface
func main() {
	rootCommand := cmd.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
