// internal/flatfile/flatfile.go
//
// Reads and writes the roster's flat file: UTF-8 text, one student per line,
// fields in the order id;name;score. There is no escaping; student validation
// keeps the delimiter and line breaks out of names, and Encode checks again.

package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kingrea/roster/internal/student"
)

// Delimiter separates the fields of a record.
const Delimiter = student.FieldDelimiter

var (
	// ErrDelimiterInName rejects a save whose names cannot be represented.
	ErrDelimiterInName = errors.New("flatfile: name contains the field delimiter or a line break")
	// ErrFieldCount marks a line that does not split into exactly three fields.
	ErrFieldCount = errors.New("expected id;name;score")
	// ErrLineTooLong marks a line longer than MaxLineBytes.
	ErrLineTooLong = errors.New("line too long")
)

// LineError describes one line that Decode skipped.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("flatfile: line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// MaxLineBytes bounds one record. Longer lines are skipped as LineErrors.
const MaxLineBytes = 4096

// Decode parses every line of r. Blank lines are ignored; lines that are
// malformed, too long or fail student validation are returned as LineErrors
// and skipped. The error return is reserved for read failures.
func Decode(r io.Reader) ([]*student.Student, []*LineError, error) {
	var (
		students []*student.Student
		skipped  []*LineError
	)
	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return students, skipped, fmt.Errorf("flatfile: read: %w", err)
		}
		if raw == "" && err != nil {
			break
		}
		lineNo++
		text := strings.TrimRight(raw, "\r\n")
		switch {
		case strings.TrimSpace(text) == "":
		case len(text) > MaxLineBytes:
			skipped = append(skipped, &LineError{Line: lineNo, Text: text[:64], Err: ErrLineTooLong})
		default:
			s, lineErr := decodeLine(text)
			if lineErr != nil {
				skipped = append(skipped, &LineError{Line: lineNo, Text: text, Err: lineErr})
			} else {
				students = append(students, s)
			}
		}
		if err != nil {
			break
		}
	}
	return students, skipped, nil
}

func decodeLine(text string) (*student.Student, error) {
	fields := strings.Split(text, Delimiter)
	if len(fields) != 3 {
		return nil, ErrFieldCount
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("id %q is not an integer", fields[0])
	}
	score, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("score %q is not an integer", fields[2])
	}
	return student.New(id, fields[1], score)
}

// Encode writes one line per student in the given order. Nothing is written
// when any name cannot be represented.
func Encode(w io.Writer, students []*student.Student) error {
	for _, s := range students {
		if !Representable(s.Name()) {
			return fmt.Errorf("%w: student #%d", ErrDelimiterInName, s.ID())
		}
	}
	var buf bytes.Buffer
	for _, s := range students {
		fmt.Fprintf(&buf, "%d%s%s%s%d\n", s.ID(), Delimiter, s.Name(), Delimiter, s.TestScore())
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("flatfile: write: %w", err)
	}
	return nil
}

// Representable reports whether a name survives an Encode/Decode round trip.
func Representable(name string) bool {
	return !strings.ContainsAny(name, Delimiter+"\r\n")
}
