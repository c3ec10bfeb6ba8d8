package command

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ScriptSource reads one command per line. Blank lines and lines starting
// with # are ignored.
type ScriptSource struct {
	scanner *bufio.Scanner
	line    int
}

// NewScriptSource wraps r.
func NewScriptSource(r io.Reader) *ScriptSource {
	return &ScriptSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next command, a *ParseError for a malformed line, or io.EOF.
func (s *ScriptSource) Next() (Command, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := Parse(text)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = s.line
			}
			return Command{}, err
		}
		return cmd, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Command{}, err
	}
	return Command{}, io.EOF
}
