package main

import (
	"os"

	"github.com/fleetlab/vtelem/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
