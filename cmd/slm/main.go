// ABOUTME: Entry point for the slm CLI
// ABOUTME: Scores straight line missions from GPS tracks

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
