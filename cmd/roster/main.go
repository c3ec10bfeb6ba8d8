// cmd/roster/main.go
//
// This is the entry point for the roster CLI.
//
// Flow:
// 1. `roster run <script|->` executes commands from a file or stdin and exits
// 2. Otherwise initialize .roster/ in the working directory and launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/roster/internal/config"
	"github.com/kingrea/roster/internal/tui"
)

func main() {
	// The working directory is the "project" whose roster we manage
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if handleRunCommand(cwd) {
		return
	}

	if err := config.InitRosterDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .roster directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
