// ABOUTME: Entry point for routines CLI.
// ABOUTME: Invokes the root Cobra command and closes the session if a command failed.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	if appState != nil {
		_ = appState.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
