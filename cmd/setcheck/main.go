package main

import (
	"fmt"
	"os"

	"digital.vasic.setmatch/pkg/cmd"
)

func main() {
	// runs the requested sub-command; see the pkg/cmd package for details
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "setcheck:", err)
		os.Exit(1)
	}
}
