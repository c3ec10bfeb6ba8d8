// internal/tui/app.go
//
// This is the interactive front end for roster. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the App below, which owns the command loop
// 2. Update: turns key presses into commands and runs them
// 3. View: renders the menu, forms, tables and panels
//
// Every roster change goes through command.Loop, so the TUI and scripted runs
// share one state machine and one journal.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/roster/internal/command"
	"github.com/kingrea/roster/internal/config"
	"github.com/kingrea/roster/internal/flatfile"
	"github.com/kingrea/roster/internal/logbook"
	"github.com/kingrea/roster/internal/report"
	"github.com/kingrea/roster/internal/roster"
	"github.com/kingrea/roster/internal/student"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu appState = iota // Menu of commands
	stateForm                     // Collecting arguments for a command
	stateRoster                   // Table of students
	stateStats                    // Statistics summary
)

const settingAutosave = "autosave"

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithJournal replaces the journal opened from the config.
func WithJournal(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// App is the main application model.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook
	loop    *command.Loop

	// UI components
	mainMenu  list.Model
	form      *form
	table     table.Model
	viewTitle string
	stats     *roster.Stats
	statusMsg string
	err       error
	quitting  bool

	width  int
	height int
}

// menuItem implements list.Item. Items either run a command or flip a setting.
type menuItem struct {
	title   string
	desc    string
	kind    command.Kind
	setting string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance for the roster in projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	app := &App{state: stateMainMenu, config: cfg}
	if lb, err := logbook.New(cfg.JournalPath()); err == nil {
		app.logbook = lb
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.logbook.Info("Session opened · data file %s", cfg.DataFilePath())

	app.loop = command.New(nil,
		command.WithStore(flatfile.NewStore(cfg.DataFilePath())),
		command.WithJournal(app.logbook),
		command.WithAutosave(cfg.Autosave()),
	)

	mainMenu := list.New(buildMainMenu(cfg.Autosave()), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "▤ STUDENT ROSTER"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)
	app.mainMenu = mainMenu
	app.table = newStudentTable()

	if cfg.Autoload() {
		app.applyOutcome(app.loop.Autoload())
	} else {
		app.statusMsg = "Autoload disabled; starting with an empty roster"
	}
	return app, nil
}

func buildMainMenu(autosave bool) []list.Item {
	autosaveState := "off"
	if autosave {
		autosaveState = "on"
	}
	return []list.Item{
		menuItem{title: "Add Student", desc: "Record a new student", kind: command.KindAdd},
		menuItem{title: "Display Roster", desc: "Show every student", kind: command.KindDisplay},
		menuItem{title: "Search", desc: "Find a student by ID", kind: command.KindSearch},
		menuItem{title: "Update Student", desc: "Change a student's name and score", kind: command.KindUpdate},
		menuItem{title: "Remove Student", desc: "Delete a student by ID", kind: command.KindRemove},
		menuItem{title: "Sort by ID", desc: "Ascending student ID", kind: command.KindSortByID},
		menuItem{title: "Sort by Name", desc: "Alphabetical", kind: command.KindSortByName},
		menuItem{title: "Sort by Score", desc: "Highest score first", kind: command.KindSortByScore},
		menuItem{title: "Statistics", desc: "Average, pass rate and grade distribution", kind: command.KindStatistics},
		menuItem{title: "Load", desc: "Replace the roster with the data file", kind: command.KindLoad},
		menuItem{title: "Save", desc: "Write the roster to the data file", kind: command.KindSave},
		menuItem{title: fmt.Sprintf("Autosave: %s", autosaveState), desc: "Save automatically on exit", setting: settingAutosave},
		menuItem{title: "Exit", desc: "Quit roster", kind: command.KindExit},
	}
}

func newStudentTable() table.Model {
	widths := []int{6, 24, 7, 7, 8}
	columns := make([]table.Column, len(report.Headers))
	for i, title := range report.Headers {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	return table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-14))
		a.table.SetHeight(max(3, msg.Height-16))
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.exit()
		}
		switch a.state {
		case stateMainMenu:
			return a.updateMainMenu(msg)
		case stateForm:
			return a.updateForm(msg)
		case stateRoster:
			return a.updateRoster(msg)
		case stateStats:
			if key := msg.String(); key == "esc" || key == "enter" || key == "q" {
				return a.returnToMainMenu()
			}
			return a, nil
		}
	}

	return a, nil
}

func (a *App) updateMainMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a.exit()
	case "enter":
		return a.handleMainMenuSelection()
	}
	var cmd tea.Cmd
	a.mainMenu, cmd = a.mainMenu.Update(msg)
	return a, cmd
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	if item.setting == settingAutosave {
		return a.toggleAutosave()
	}
	if item.kind == command.KindExit {
		return a.exit()
	}
	if needsForm(item.kind) {
		a.form = newForm(item.kind, item.title)
		a.state = stateForm
		a.err = nil
		a.statusMsg = ""
		return a, a.form.focusField(0)
	}
	return a.execute(command.Command{Kind: item.kind})
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a.returnToMainMenu()
	}
	switch msg.String() {
	case "esc":
		a.statusMsg = fmt.Sprintf("%s cancelled", a.form.title)
		return a.returnToMainMenu()
	case "tab", "down":
		return a, a.form.focusField(a.form.focus + 1)
	case "shift+tab", "up":
		return a, a.form.focusField(a.form.focus - 1)
	case "enter":
		if !a.form.onLastField() {
			return a, a.form.focusField(a.form.focus + 1)
		}
		return a.submitForm()
	}
	return a, a.form.update(msg)
}

// submitForm runs the form's command. Parse and validation failures keep the
// form open so the user can correct the field.
func (a *App) submitForm() (tea.Model, tea.Cmd) {
	cmd, field, err := a.form.command()
	if err != nil {
		a.form.setError(err)
		return a, a.form.focusField(field)
	}
	out := a.loop.Execute(cmd)
	if out.Err != nil {
		a.form.setError(out.Err)
		return a, nil
	}
	a.form = nil
	a.applyOutcome(out)
	if out.Kind == command.KindSearch {
		a.showRoster(out)
		return a, nil
	}
	a.state = stateMainMenu
	return a, nil
}

func (a *App) updateRoster(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return a.returnToMainMenu()
	case "i":
		return a.execute(command.Command{Kind: command.KindSortByID})
	case "n":
		return a.execute(command.Command{Kind: command.KindSortByName})
	case "s":
		return a.execute(command.Command{Kind: command.KindSortByScore})
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// execute runs a command that needs no arguments and picks the screen that
// shows its result.
func (a *App) execute(cmd command.Command) (tea.Model, tea.Cmd) {
	out := a.loop.Execute(cmd)
	a.applyOutcome(out)
	if out.Err != nil {
		a.state = stateMainMenu
		return a, nil
	}
	switch out.Kind {
	case command.KindDisplay, command.KindSortByID, command.KindSortByName, command.KindSortByScore:
		if len(out.Students) > 0 {
			a.showRoster(out)
			return a, nil
		}
	case command.KindStatistics:
		if out.Stats != nil {
			a.stats = out.Stats
			a.state = stateStats
			return a, nil
		}
	}
	a.state = stateMainMenu
	return a, nil
}

func (a *App) showRoster(out command.Outcome) {
	rows := make([]table.Row, 0, len(out.Students))
	for _, s := range out.Students {
		rows = append(rows, table.Row(report.Row(s)))
	}
	a.table.SetRows(rows)
	a.table.GotoTop()
	a.viewTitle = out.Message
	a.state = stateRoster
}

func (a *App) applyOutcome(out command.Outcome) {
	a.err = out.Err
	a.statusMsg = out.Message
	if n := len(out.Skipped); n > 0 {
		a.statusMsg = fmt.Sprintf("%s · first skipped: %v", out.Message, out.Skipped[0])
	}
}

func (a *App) toggleAutosave() (tea.Model, tea.Cmd) {
	enabled := !a.loop.Autosave()
	if err := a.config.SetAutosave(enabled); err != nil {
		a.err = err
		a.logbook.Error("Settings · autosave: %v", err)
		return a, nil
	}
	a.loop.SetAutosave(enabled)
	idx := a.mainMenu.Index()
	a.mainMenu.SetItems(buildMainMenu(enabled))
	a.mainMenu.Select(idx)
	a.err = nil
	if enabled {
		a.statusMsg = "Autosave on: the roster is saved when you exit"
	} else {
		a.statusMsg = "Autosave off"
	}
	a.logbook.Info("Settings · autosave %v", enabled)
	return a, nil
}

// exit runs the exit command (saving when autosave is on) and quits.
func (a *App) exit() (tea.Model, tea.Cmd) {
	if a.loop.State() == command.StateRunning {
		out := a.loop.Execute(command.Command{Kind: command.KindExit})
		a.applyOutcome(out)
	}
	a.logbook.Info("Session closed")
	a.quitting = true
	return a, tea.Quit
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	a.form = nil
	a.stats = nil
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	if a.quitting {
		if a.err != nil {
			return fmt.Sprintf("%s: %v\n", a.statusMsg, a.err)
		}
		return a.statusMsg + "\n"
	}
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(30, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}

	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateForm:
		content = a.form.view(leftWidth - 4)
	case stateRoster:
		content = a.renderRoster()
	case stateStats:
		content = a.renderStats()
	}
	return a.renderBoard(content, leftWidth, rightWidth)
}

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("▤ ROSTER")
	leftBox := panelStyle().
		Width(max(20, leftWidth)).
		Render(lipgloss.NewStyle().Width(max(20, leftWidth-4)).Render(mainContent))
	body := leftBox
	if rightWidth > 0 {
		rightBox := panelStyle().
			Width(max(20, rightWidth)).
			Render(a.renderSummaryPanel())
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	if a.err != nil {
		footer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginTop(1).
			Render(fmt.Sprintf("⚠ %v", a.err))
	}
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)
}

func (a *App) renderRoster() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(a.viewTitle)
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("i/n/s → sort by id, name, score    Esc → back")
	return lipgloss.JoinVertical(lipgloss.Left, title, a.table.View(), hint)
}

func (a *App) renderStats() string {
	if a.stats == nil {
		return "No data: the roster is empty"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("Statistics")
	lines := report.StatsLines(*a.stats)
	bars := make([]string, 0, len(student.Grades))
	for _, g := range student.Grades {
		n := a.stats.Distribution[g]
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Render(strings.Repeat("█", n))
		bars = append(bars, fmt.Sprintf("%s %s %d", g, bar, n))
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Esc → back")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(lines, "\n"),
		"",
		strings.Join(bars, "\n"),
		hint,
	)
}

func (a *App) renderSummaryPanel() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Roster")
	r := a.loop.Roster()
	lines := []string{fmt.Sprintf("%d student(s)", r.Len())}
	if stats, err := r.Statistics(); err == nil {
		lines = append(lines,
			fmt.Sprintf("Average %.1f", stats.Average),
			fmt.Sprintf("Pass rate %.1f%%", stats.PassRate),
		)
	}
	autosave := "off"
	if a.loop.Autosave() {
		autosave = "on"
	}
	dataFile := "none"
	if store := a.loop.Store(); store != nil {
		dataFile = filepath.Base(store.Path())
	}
	lines = append(lines, "", fmt.Sprintf("File: %s", dataFile), fmt.Sprintf("Autosave: %s", autosave))
	note := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, note)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(a.config.JournalTail())
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "journal"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("JOURNAL · %s · %d of %d line(s)", fileName, len(lines), total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return panelStyle().Render(fmt.Sprintf("%s\n%s", head, body))
}
