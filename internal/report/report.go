// Package report renders command outcomes as plain text for non-interactive
// runs. The TUI has its own styled rendering and only shares the row and
// statistics helpers.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kingrea/roster/internal/command"
	"github.com/kingrea/roster/internal/roster"
	"github.com/kingrea/roster/internal/student"
)

// Headers are the column titles for a student listing.
var Headers = []string{"ID", "Name", "Score", "Grade", "Status"}

// Row renders one student as table cells in Headers order.
func Row(s *student.Student) []string {
	return []string{
		strconv.Itoa(s.ID()),
		s.Name(),
		strconv.Itoa(s.TestScore()),
		string(s.Grade()),
		s.PassLabel(),
	}
}

// Table renders students as a bordered table.
func Table(students []*student.Student) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...)
	for _, s := range students {
		t.Row(Row(s)...)
	}
	return t.String()
}

// StatsLines renders the summary one fact per line.
func StatsLines(stats roster.Stats) []string {
	dist := make([]string, 0, len(student.Grades))
	for _, g := range student.Grades {
		dist = append(dist, fmt.Sprintf("%s:%d", g, stats.Distribution[g]))
	}
	return []string{
		fmt.Sprintf("Students:  %d", stats.Count),
		fmt.Sprintf("Average:   %.1f", stats.Average),
		fmt.Sprintf("Pass rate: %.1f%% (%d passed, %d failed)", stats.PassRate, stats.Passed, stats.Failed),
		fmt.Sprintf("Range:     %d to %d", stats.Lowest, stats.Highest),
		fmt.Sprintf("Grades:    %s", strings.Join(dist, "  ")),
	}
}

// Write prints one outcome.
func Write(w io.Writer, out command.Outcome) error {
	var b strings.Builder
	if out.Err != nil {
		fmt.Fprintf(&b, "error: %v\n", out.Err)
	}
	if out.Message != "" {
		fmt.Fprintln(&b, out.Message)
	}
	for _, skipped := range out.Skipped {
		fmt.Fprintf(&b, "  skipped: %v\n", skipped)
	}
	if showsTable(out) {
		fmt.Fprintln(&b, Table(out.Students))
	}
	if out.Stats != nil {
		for _, line := range StatsLines(*out.Stats) {
			fmt.Fprintln(&b, line)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func showsTable(out command.Outcome) bool {
	if len(out.Students) == 0 {
		return false
	}
	switch out.Kind {
	case command.KindDisplay, command.KindSearch, command.KindLoad,
		command.KindSortByID, command.KindSortByName, command.KindSortByScore:
		return true
	}
	return false
}
