// internal/command/command.go
//
// Commands are the menu choices of the roster, detached from where they came
// from. The TUI builds them from forms; scripts and piped input produce them
// through Parse.

package command

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies a menu choice.
type Kind int

const (
	KindAdd Kind = iota + 1
	KindDisplay
	KindSearch
	KindUpdate
	KindRemove
	KindSortByID
	KindSortByName
	KindSortByScore
	KindStatistics
	KindLoad
	KindSave
	KindExit
)

var kindNames = map[Kind]string{
	KindAdd:         "add",
	KindDisplay:     "display",
	KindSearch:      "search",
	KindUpdate:      "update",
	KindRemove:      "remove",
	KindSortByID:    "sort-by-id",
	KindSortByName:  "sort-by-name",
	KindSortByScore: "sort-by-score",
	KindStatistics:  "statistics",
	KindLoad:        "load",
	KindSave:        "save",
	KindExit:        "exit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one menu choice plus whatever it operates on. Only the fields
// relevant to Kind are read.
type Command struct {
	Kind  Kind
	ID    int
	Name  string
	Score int
}

// ParseError reports input that could not be turned into a command. It is
// never fatal; the caller asks again.
type ParseError struct {
	Line   int
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("command: line %d: %q: %s", e.Line, e.Input, e.Reason)
	}
	return fmt.Sprintf("command: %q: %s", e.Input, e.Reason)
}

var verbs = map[string]Kind{
	"add":           KindAdd,
	"display":       KindDisplay,
	"list":          KindDisplay,
	"show":          KindDisplay,
	"search":        KindSearch,
	"find":          KindSearch,
	"update":        KindUpdate,
	"remove":        KindRemove,
	"delete":        KindRemove,
	"sort-by-id":    KindSortByID,
	"sort-by-name":  KindSortByName,
	"sort-by-score": KindSortByScore,
	"stats":         KindStatistics,
	"statistics":    KindStatistics,
	"load":          KindLoad,
	"save":          KindSave,
	"exit":          KindExit,
	"quit":          KindExit,
}

var sortKeys = map[string]Kind{
	"id":    KindSortByID,
	"name":  KindSortByName,
	"score": KindSortByScore,
}

// Parse reads one line of the form
//
//	add <id> <name...> <score>
//	update <id> <name...> <score>
//	search <id> | remove <id>
//	sort id|name|score
//	display | stats | load | save | exit
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &ParseError{Input: line, Reason: "empty command"}
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	fail := func(reason string) (Command, error) {
		return Command{}, &ParseError{Input: strings.TrimSpace(line), Reason: reason}
	}

	if verb == "sort" {
		if len(args) != 1 {
			return fail("usage: sort id|name|score")
		}
		kind, ok := sortKeys[strings.ToLower(args[0])]
		if !ok {
			return fail(fmt.Sprintf("unknown sort key %q", args[0]))
		}
		return Command{Kind: kind}, nil
	}

	kind, ok := verbs[verb]
	if !ok {
		return fail(fmt.Sprintf("unknown command %q", fields[0]))
	}
	switch kind {
	case KindAdd, KindUpdate:
		if len(args) < 3 {
			return fail(fmt.Sprintf("usage: %s <id> <name> <score>", verb))
		}
		id, err := ParseNumber("id", args[0])
		if err != nil {
			return fail(reasonOf(err))
		}
		score, err := ParseNumber("score", args[len(args)-1])
		if err != nil {
			return fail(reasonOf(err))
		}
		return Command{Kind: kind, ID: id, Name: innerText(line), Score: score}, nil
	case KindSearch, KindRemove:
		if len(args) != 1 {
			return fail(fmt.Sprintf("usage: %s <id>", verb))
		}
		id, err := ParseNumber("id", args[0])
		if err != nil {
			return fail(reasonOf(err))
		}
		return Command{Kind: kind, ID: id}, nil
	default:
		if len(args) != 0 {
			return fail(fmt.Sprintf("%s takes no arguments", verb))
		}
		return Command{Kind: kind}, nil
	}
}

// ParseNumber converts a typed field to an int, naming the field on failure.
func ParseNumber(field, text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &ParseError{Input: text, Reason: fmt.Sprintf("%s is required", field)}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ParseError{Input: text, Reason: fmt.Sprintf("%s must be a whole number", field)}
	}
	return n, nil
}

// innerText returns the line between its second token and its last one,
// keeping the spacing the user typed.
func innerText(line string) string {
	rest := line
	for i := 0; i < 2; i++ {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if idx := strings.IndexFunc(rest, unicode.IsSpace); idx >= 0 {
			rest = rest[idx:]
		}
	}
	rest = strings.TrimSpace(rest)
	if idx := strings.LastIndexFunc(rest, unicode.IsSpace); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

func reasonOf(err error) string {
	if perr, ok := err.(*ParseError); ok {
		return perr.Reason
	}
	return err.Error()
}
