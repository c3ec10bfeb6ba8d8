package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/roster/internal/command"
)

const (
	fieldID    = "id"
	fieldName  = "name"
	fieldScore = "score"
)

var formFields = map[command.Kind][]string{
	command.KindAdd:    {fieldID, fieldName, fieldScore},
	command.KindUpdate: {fieldID, fieldName, fieldScore},
	command.KindSearch: {fieldID},
	command.KindRemove: {fieldID},
}

var fieldLabels = map[string]string{
	fieldID:    "Student ID",
	fieldName:  "Name",
	fieldScore: "Test score (0-100)",
}

// form collects the arguments of one command. It stays open until the typed
// values parse and the command succeeds.
type form struct {
	kind   command.Kind
	title  string
	fields []string
	inputs []textinput.Model
	focus  int
	err    string
}

func needsForm(kind command.Kind) bool {
	_, ok := formFields[kind]
	return ok
}

func newForm(kind command.Kind, title string) *form {
	fields := formFields[kind]
	f := &form{kind: kind, title: title, fields: fields}
	for _, field := range fields {
		input := textinput.New()
		input.Prompt = "› "
		input.Placeholder = fieldLabels[field]
		if field == fieldName {
			input.CharLimit = 64
		} else {
			input.CharLimit = 10
		}
		f.inputs = append(f.inputs, input)
	}
	return f
}

func (f *form) focusField(idx int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if idx < 0 {
		idx = len(f.inputs) - 1
	}
	if idx >= len(f.inputs) {
		idx = 0
	}
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = idx
	return f.inputs[idx].Focus()
}

func (f *form) onLastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// command parses the typed values. On failure it returns the index of the
// offending field alongside the error.
func (f *form) command() (command.Command, int, error) {
	cmd := command.Command{Kind: f.kind}
	for i, field := range f.fields {
		value := f.inputs[i].Value()
		switch field {
		case fieldID:
			n, err := command.ParseNumber(fieldID, value)
			if err != nil {
				return command.Command{}, i, err
			}
			cmd.ID = n
		case fieldName:
			cmd.Name = value
		case fieldScore:
			n, err := command.ParseNumber(fieldScore, value)
			if err != nil {
				return command.Command{}, i, err
			}
			cmd.Score = n
		}
	}
	return cmd, -1, nil
}

func (f *form) setError(err error) {
	var perr *command.ParseError
	if errors.As(err, &perr) {
		f.err = perr.Reason
		return
	}
	f.err = err.Error()
}

func (f *form) view(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render(f.title)
	rows := []string{title}
	for i, field := range f.fields {
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
		if i == f.focus {
			label = label.Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
		}
		rows = append(rows, label.Render(fieldLabels[field]), f.inputs[i].View(), "")
	}
	if f.err != "" {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Render(fmt.Sprintf("⚠ %s", f.err)))
	}
	rows = append(rows, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render("Tab → next field    Enter → submit    Esc → cancel"))
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(rows, "\n"))
}
