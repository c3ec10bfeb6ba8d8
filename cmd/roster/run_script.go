package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kingrea/roster/internal/command"
	"github.com/kingrea/roster/internal/config"
	"github.com/kingrea/roster/internal/flatfile"
	"github.com/kingrea/roster/internal/logbook"
	"github.com/kingrea/roster/internal/report"
)

func handleRunCommand(cwd string) bool {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		return false
	}
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: roster run /path/to/script.txt   (use - to read stdin)")
		os.Exit(2)
	}
	if err := runScript(cwd, os.Args[2], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
	return true
}

// runScript executes the commands in script against the roster configured for
// projectDir. Failed commands are reported on stdout and do not stop the run;
// only startup and input errors are returned.
func runScript(projectDir, script string, stdin io.Reader, stdout io.Writer) error {
	if err := config.InitRosterDir(projectDir); err != nil {
		return err
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return err
	}

	in := stdin
	if script != "-" {
		file, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer file.Close()
		in = file
	}

	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Journal unavailable: %v\n", err)
	}
	lb.Info("Script run · %s", script)

	loop := command.New(nil,
		command.WithStore(flatfile.NewStore(cfg.DataFilePath())),
		command.WithJournal(lb),
		command.WithAutosave(cfg.Autosave()),
	)

	var writeErr error
	sink := func(out command.Outcome) {
		if err := report.Write(stdout, out); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	if cfg.Autoload() {
		sink(loop.Autoload())
	}
	if err := loop.Run(command.NewScriptSource(in), sink); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return writeErr
}
