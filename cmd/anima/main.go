// Command anima previews springs, easing curves and decay projections from
// the terminal using the settings in anima.yaml.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/anima/cmd/anima/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
