package command

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/kingrea/roster/internal/flatfile"
	"github.com/kingrea/roster/internal/logbook"
	"github.com/kingrea/roster/internal/roster"
	"github.com/kingrea/roster/internal/student"
)

// State is the loop's position in its two-state machine.
type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "terminated"
	}
	return "running"
}

var (
	// ErrTerminated is returned for any command executed after exit.
	ErrTerminated = errors.New("command: loop has terminated")
	// ErrUnknownCommand is returned for a Kind with no transition.
	ErrUnknownCommand = errors.New("command: unknown command")
	// ErrNoStore is returned by load and save when persistence is not configured.
	ErrNoStore = errors.New("command: no data file configured")
)

// Store persists the roster. *flatfile.Store satisfies it.
type Store interface {
	Path() string
	Load() (flatfile.LoadResult, error)
	Save(students []*student.Student) error
}

// Source yields commands until it returns io.EOF. A *ParseError from Next is
// reported and skipped; any other error stops Run.
type Source interface {
	Next() (Command, error)
}

// Outcome is the result of one command. Err is set when the command failed;
// the loop keeps running either way unless the command was exit.
type Outcome struct {
	Kind     Kind
	Message  string
	Students []*student.Student
	Stats    *roster.Stats
	Skipped  []*flatfile.LineError
	Err      error
}

type handler func(*Loop, Command) Outcome

var transitions = map[Kind]handler{
	KindAdd:         (*Loop).add,
	KindDisplay:     (*Loop).display,
	KindSearch:      (*Loop).search,
	KindUpdate:      (*Loop).update,
	KindRemove:      (*Loop).remove,
	KindSortByID:    (*Loop).sortByID,
	KindSortByName:  (*Loop).sortByName,
	KindSortByScore: (*Loop).sortByScore,
	KindStatistics:  (*Loop).statistics,
	KindLoad:        (*Loop).load,
	KindSave:        (*Loop).save,
	KindExit:        (*Loop).exit,
}

// Loop executes commands against a roster. It holds no I/O of its own beyond
// the optional store and journal.
type Loop struct {
	state    State
	roster   *roster.Roster
	store    Store
	journal  *logbook.Logbook
	autosave bool
}

// Option customizes a Loop during construction.
type Option func(*Loop)

// WithStore enables load and save.
func WithStore(store Store) Option {
	return func(l *Loop) {
		l.store = store
	}
}

// WithJournal records every executed command.
func WithJournal(journal *logbook.Logbook) Option {
	return func(l *Loop) {
		l.journal = journal
	}
}

// WithAutosave saves the roster when exit runs.
func WithAutosave(enabled bool) Option {
	return func(l *Loop) {
		l.autosave = enabled
	}
}

// New builds a running loop over r. A nil roster starts empty.
func New(r *roster.Roster, opts ...Option) *Loop {
	if r == nil {
		r = roster.New()
	}
	l := &Loop{state: StateRunning, roster: r}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *Loop) State() State { return l.state }

func (l *Loop) Roster() *roster.Roster { return l.roster }

// Store returns the configured store, or nil.
func (l *Loop) Store() Store { return l.store }

// SetAutosave changes whether exit saves.
func (l *Loop) SetAutosave(enabled bool) { l.autosave = enabled }

func (l *Loop) Autosave() bool { return l.autosave }

// Execute runs one command through the transition table.
func (l *Loop) Execute(cmd Command) Outcome {
	if l.state == StateTerminated {
		return Outcome{Kind: cmd.Kind, Err: ErrTerminated}
	}
	h, ok := transitions[cmd.Kind]
	if !ok {
		out := Outcome{Kind: cmd.Kind, Err: fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)}
		l.record(out)
		return out
	}
	out := h(l, cmd)
	out.Kind = cmd.Kind
	l.record(out)
	return out
}

// Autoload loads the store at startup. A missing file is not an error; the
// roster simply starts empty.
func (l *Loop) Autoload() Outcome {
	if l.store == nil {
		return Outcome{Kind: KindLoad, Message: "Starting with an empty roster"}
	}
	out := l.Execute(Command{Kind: KindLoad})
	if errors.Is(out.Err, fs.ErrNotExist) {
		return Outcome{Kind: KindLoad, Message: fmt.Sprintf("No saved roster at %s; starting empty", l.store.Path())}
	}
	return out
}

// Run pulls commands from src until exit or end of input, handing every
// outcome to sink. Parse errors are reported to sink and skipped.
func (l *Loop) Run(src Source, sink func(Outcome)) error {
	if sink == nil {
		sink = func(Outcome) {}
	}
	for l.state == StateRunning {
		cmd, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				l.journal.Warn("input · %s", perr.Error())
				sink(Outcome{Err: err})
				continue
			}
			return err
		}
		sink(l.Execute(cmd))
	}
	return nil
}

func (l *Loop) record(out Outcome) {
	if out.Err != nil {
		l.journal.Warn("%s · %v", out.Kind, out.Err)
		return
	}
	l.journal.Info("%s · %s", out.Kind, out.Message)
	for _, skipped := range out.Skipped {
		l.journal.Warn("%s · skipped %v", out.Kind, skipped)
	}
}

func (l *Loop) add(cmd Command) Outcome {
	s, err := l.roster.Add(cmd.ID, cmd.Name, cmd.Score)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{
		Message:  fmt.Sprintf("Added %s", s),
		Students: []*student.Student{s},
	}
}

func (l *Loop) display(Command) Outcome {
	students := l.roster.Students()
	if len(students) == 0 {
		return Outcome{Message: "Roster is empty"}
	}
	return Outcome{
		Message:  fmt.Sprintf("%d student(s)", len(students)),
		Students: students,
	}
}

func (l *Loop) search(cmd Command) Outcome {
	s, err := l.roster.FindByID(cmd.ID)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: id %d", err, cmd.ID)}
	}
	return Outcome{
		Message:  fmt.Sprintf("Found %s", s),
		Students: []*student.Student{s},
	}
}

func (l *Loop) update(cmd Command) Outcome {
	s, err := l.roster.Update(cmd.ID, cmd.Name, cmd.Score)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			err = fmt.Errorf("%w: id %d", err, cmd.ID)
		}
		return Outcome{Err: err}
	}
	return Outcome{
		Message:  fmt.Sprintf("Updated %s", s),
		Students: []*student.Student{s},
	}
}

func (l *Loop) remove(cmd Command) Outcome {
	s, err := l.roster.Remove(cmd.ID)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: id %d", err, cmd.ID)}
	}
	return Outcome{
		Message:  fmt.Sprintf("Removed %s", s),
		Students: []*student.Student{s},
	}
}

func (l *Loop) sortByID(Command) Outcome {
	l.roster.SortByID()
	return l.sorted("id")
}

func (l *Loop) sortByName(Command) Outcome {
	l.roster.SortByName()
	return l.sorted("name")
}

func (l *Loop) sortByScore(Command) Outcome {
	l.roster.SortByScore()
	return l.sorted("score (highest first)")
}

func (l *Loop) sorted(by string) Outcome {
	return Outcome{
		Message:  fmt.Sprintf("Sorted by %s", by),
		Students: l.roster.Students(),
	}
}

func (l *Loop) statistics(Command) Outcome {
	stats, err := l.roster.Statistics()
	if errors.Is(err, roster.ErrNoData) {
		return Outcome{Message: "No data: the roster is empty"}
	}
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{
		Message: fmt.Sprintf("Average %.1f · pass rate %.1f%%", stats.Average, stats.PassRate),
		Stats:   &stats,
	}
}

// load replaces the roster with the file contents. On failure the roster is
// left as it was.
func (l *Loop) load(Command) Outcome {
	if l.store == nil {
		return Outcome{Err: ErrNoStore}
	}
	result, err := l.store.Load()
	if err != nil {
		return Outcome{Err: err}
	}
	l.roster.Reset(result.Students)
	msg := fmt.Sprintf("Loaded %d student(s) from %s", len(result.Students), l.store.Path())
	if n := len(result.Skipped); n > 0 {
		msg += fmt.Sprintf(" (%d line(s) skipped)", n)
	}
	return Outcome{
		Message:  msg,
		Students: l.roster.Students(),
		Skipped:  result.Skipped,
	}
}

func (l *Loop) save(Command) Outcome {
	if l.store == nil {
		return Outcome{Err: ErrNoStore}
	}
	students := l.roster.Students()
	if err := l.store.Save(students); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Message: fmt.Sprintf("Saved %d student(s) to %s", len(students), l.store.Path())}
}

// exit always terminates; a failed autosave is reported but does not keep
// the loop alive.
func (l *Loop) exit(Command) Outcome {
	l.state = StateTerminated
	if !l.autosave || l.store == nil {
		return Outcome{Message: "Goodbye"}
	}
	saved := l.save(Command{Kind: KindSave})
	if saved.Err != nil {
		return Outcome{Message: "Goodbye (autosave failed)", Err: saved.Err}
	}
	return Outcome{Message: fmt.Sprintf("%s. Goodbye", saved.Message)}
}
