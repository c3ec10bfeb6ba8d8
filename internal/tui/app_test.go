package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/roster/internal/command"
	"github.com/kingrea/roster/internal/config"
)

func TestNewAppAutoloadsDataFile(t *testing.T) {
	projectDir := initProject(t)
	writeDataFile(t, projectDir, "1;Ann;90\n2;Bo;40\nnot a record\n")
	app := newTestApp(t, projectDir)
	if got := app.loop.Roster().Len(); got != 2 {
		t.Fatalf("roster len = %d, want 2", got)
	}
	if !strings.Contains(app.statusMsg, "Loaded 2 student(s)") {
		t.Fatalf("unexpected status: %q", app.statusMsg)
	}
	if !strings.Contains(app.statusMsg, "line 3") {
		t.Fatalf("expected skipped line in status, got %q", app.statusMsg)
	}
}

func TestNewAppStartsEmptyWithoutDataFile(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir)
	if app.loop.Roster().Len() != 0 {
		t.Fatalf("expected empty roster")
	}
	if app.err != nil {
		t.Fatalf("missing data file should not be an error: %v", app.err)
	}
	if !strings.Contains(app.statusMsg, "starting empty") {
		t.Fatalf("unexpected status: %q", app.statusMsg)
	}
}

func TestAddFormAddsStudent(t *testing.T) {
	app := newTestApp(t, initProject(t))
	openMenuItem(t, app, "Add Student")
	if app.state != stateForm {
		t.Fatalf("expected form state, got %d", app.state)
	}
	typeText(app, "1")
	press(app, tea.KeyTab)
	typeText(app, "Ann Lee")
	press(app, tea.KeyTab)
	typeText(app, "90")
	press(app, tea.KeyEnter)

	if app.state != stateMainMenu {
		t.Fatalf("expected return to main menu, got state %d (form err %q)", app.state, formErr(app))
	}
	s, err := app.loop.Roster().FindByID(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if s.Name() != "Ann Lee" || s.TestScore() != 90 {
		t.Fatalf("got %s", s)
	}
	if !strings.HasPrefix(app.statusMsg, "Added #1 Ann Lee") {
		t.Fatalf("unexpected status: %q", app.statusMsg)
	}
}

func TestAddFormRepromptsOnBadNumber(t *testing.T) {
	app := newTestApp(t, initProject(t))
	openMenuItem(t, app, "Add Student")
	typeText(app, "x")
	press(app, tea.KeyEnter)
	typeText(app, "Ann")
	press(app, tea.KeyEnter)
	typeText(app, "90")
	press(app, tea.KeyEnter)

	if app.state != stateForm {
		t.Fatalf("expected form to stay open, got state %d", app.state)
	}
	if got := formErr(app); got != "id must be a whole number" {
		t.Fatalf("form err = %q", got)
	}
	if app.form.focus != 0 {
		t.Fatalf("expected focus on id field, got %d", app.form.focus)
	}
	if app.loop.Roster().Len() != 0 {
		t.Fatalf("nothing should have been added")
	}
}

func TestAddFormKeepsFormOnValidationError(t *testing.T) {
	app := newTestApp(t, initProject(t))
	openMenuItem(t, app, "Add Student")
	typeText(app, "3")
	press(app, tea.KeyTab)
	typeText(app, "Cy")
	press(app, tea.KeyTab)
	typeText(app, "120")
	press(app, tea.KeyEnter)

	if app.state != stateForm {
		t.Fatalf("expected form to stay open, got state %d", app.state)
	}
	if !strings.Contains(formErr(app), "test_score") {
		t.Fatalf("form err = %q", formErr(app))
	}
	press(app, tea.KeyEsc)
	if app.state != stateMainMenu {
		t.Fatalf("esc should cancel the form")
	}
}

func TestSearchShowsStudentTable(t *testing.T) {
	app := newTestApp(t, initProject(t))
	seed(t, app)
	openMenuItem(t, app, "Search")
	typeText(app, "2")
	press(app, tea.KeyEnter)
	if app.state != stateRoster {
		t.Fatalf("expected roster view, got state %d (form err %q)", app.state, formErr(app))
	}
	rows := app.table.Rows()
	if len(rows) != 1 || rows[0][1] != "Bo" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestSearchMissingStudentStaysOnForm(t *testing.T) {
	app := newTestApp(t, initProject(t))
	openMenuItem(t, app, "Search")
	typeText(app, "9")
	press(app, tea.KeyEnter)
	if app.state != stateForm {
		t.Fatalf("expected form to stay open, got state %d", app.state)
	}
	if !strings.Contains(formErr(app), "not found") {
		t.Fatalf("form err = %q", formErr(app))
	}
}

func TestSortByNameShowsOrderedTable(t *testing.T) {
	app := newTestApp(t, initProject(t))
	seed(t, app)
	openMenuItem(t, app, "Sort by Name")
	if app.state != stateRoster {
		t.Fatalf("expected roster view, got state %d", app.state)
	}
	rows := app.table.Rows()
	if len(rows) != 2 || rows[0][1] != "Ann" || rows[1][1] != "Bo" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	press(app, tea.KeyRunes, 's')
	rows = app.table.Rows()
	if rows[0][2] != "90" {
		t.Fatalf("expected highest score first, got %v", rows)
	}
	press(app, tea.KeyEsc)
	if app.state != stateMainMenu {
		t.Fatalf("esc should return to the menu")
	}
}

func TestStatisticsView(t *testing.T) {
	app := newTestApp(t, initProject(t))
	openMenuItem(t, app, "Statistics")
	if app.state != stateMainMenu {
		t.Fatalf("empty roster should stay on the menu, got state %d", app.state)
	}
	if !strings.HasPrefix(app.statusMsg, "No data") {
		t.Fatalf("unexpected status: %q", app.statusMsg)
	}

	seed(t, app)
	openMenuItem(t, app, "Statistics")
	if app.state != stateStats || app.stats == nil {
		t.Fatalf("expected statistics view, got state %d", app.state)
	}
	if app.stats.Average != 65 || app.stats.PassRate != 50 {
		t.Fatalf("unexpected stats: %+v", *app.stats)
	}
	if view := app.View(); !strings.Contains(view, "Pass rate: 50.0%") {
		t.Fatalf("stats view missing pass rate:\n%s", view)
	}
}

func TestToggleAutosavePersists(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir)
	openMenuItem(t, app, "Autosave: off")
	if !app.loop.Autosave() {
		t.Fatalf("expected loop autosave on")
	}
	if _, ok := findMenuItem(app, "Autosave: on"); !ok {
		t.Fatalf("menu should show autosave on")
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if !cfg.Autosave() {
		t.Fatalf("expected autosave to persist")
	}
}

func TestCtrlCRunsExitAndQuits(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir)
	openMenuItem(t, app, "Autosave: off")
	seed(t, app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if app.loop.State() != command.StateTerminated {
		t.Fatalf("loop should be terminated")
	}
	data, err := os.ReadFile(filepath.Join(projectDir, config.RosterDir, "students.txt"))
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if string(data) != "2;Bo;40\n1;Ann;90\n" {
		t.Fatalf("data file = %q", data)
	}
}

func TestQuitViewShowsAutosaveFailure(t *testing.T) {
	projectDir := initProject(t)
	blocker := filepath.Join(projectDir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	t.Setenv(config.DataFileEnv, filepath.Join(blocker, "students.txt"))
	app := newTestApp(t, projectDir)
	openMenuItem(t, app, "Autosave: off")
	seed(t, app)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	view := app.View()
	if !strings.Contains(view, "Goodbye (autosave failed)") {
		t.Fatalf("quit view missing status: %q", view)
	}
	if !strings.Contains(view, "flatfile: ensure dir") {
		t.Fatalf("quit view missing failure reason: %q", view)
	}
}

func TestExitMenuItemQuitsWithoutAutosave(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir)
	seed(t, app)
	cmd := openMenuItem(t, app, "Exit")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if _, err := os.Stat(filepath.Join(projectDir, config.RosterDir, "students.txt")); !os.IsNotExist(err) {
		t.Fatalf("exit without autosave must not write the data file: %v", err)
	}
}

func TestViewShowsJournal(t *testing.T) {
	app := newTestApp(t, initProject(t))
	seed(t, app)
	view := app.View()
	if !strings.Contains(view, "JOURNAL · journal.log") {
		t.Fatalf("view missing journal panel:\n%s", view)
	}
	if !strings.Contains(view, "add · Added #2 Bo") {
		t.Fatalf("view missing journal entry:\n%s", view)
	}
}

func initProject(t *testing.T) string {
	t.Helper()
	projectDir := t.TempDir()
	t.Setenv(config.DataFileEnv, "")
	if err := config.InitRosterDir(projectDir); err != nil {
		t.Fatalf("init roster dir: %v", err)
	}
	return projectDir
}

func writeDataFile(t *testing.T, projectDir, content string) {
	t.Helper()
	path := filepath.Join(projectDir, config.RosterDir, "students.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write data file: %v", err)
	}
}

func newTestApp(t *testing.T, projectDir string, opts ...AppOption) *App {
	t.Helper()
	app, err := NewApp(projectDir, opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 48})
	return asApp(t, model)
}

// seed adds Bo then Ann directly through the loop.
func seed(t *testing.T, app *App) {
	t.Helper()
	for _, cmd := range []command.Command{
		{Kind: command.KindAdd, ID: 2, Name: "Bo", Score: 40},
		{Kind: command.KindAdd, ID: 1, Name: "Ann", Score: 90},
	} {
		if out := app.loop.Execute(cmd); out.Err != nil {
			t.Fatalf("seed: %v", out.Err)
		}
	}
}

func findMenuItem(app *App, title string) (int, bool) {
	for i, item := range app.mainMenu.Items() {
		if mi, ok := item.(menuItem); ok && mi.title == title {
			return i, true
		}
	}
	return -1, false
}

// openMenuItem selects the item titled title and presses enter on it.
func openMenuItem(t *testing.T, app *App, title string) tea.Cmd {
	t.Helper()
	if app.state != stateMainMenu {
		t.Fatalf("not on main menu (state %d)", app.state)
	}
	idx, ok := findMenuItem(app, title)
	if !ok {
		t.Fatalf("menu item %q not found", title)
	}
	app.mainMenu.Select(idx)
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	asApp(t, model)
	return cmd
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(app *App, key tea.KeyType, runes ...rune) {
	app.Update(tea.KeyMsg{Type: key, Runes: runes})
}

func formErr(app *App) string {
	if app.form == nil {
		return ""
	}
	return app.form.err
}

func asApp(t *testing.T, model tea.Model) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return app
}
