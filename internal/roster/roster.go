// internal/roster/roster.go
//
// Roster is the ordered, in-memory list of students the command loop works
// on. Insertion order is kept until one of the Sort methods re-orders it.
// A Roster is owned by a single goroutine and does no locking.

package roster

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/kingrea/roster/internal/student"
)

var (
	// ErrNotFound is returned when no student carries the requested id.
	ErrNotFound = errors.New("roster: student not found")
	// ErrNoData is returned by Statistics on an empty roster.
	ErrNoData = errors.New("roster: no data")
)

type Roster struct {
	students []*student.Student
	accepted int
}

// New returns an empty roster.
func New() *Roster {
	return &Roster{}
}

// Add builds a student and appends it. Validation failures come back as a
// *student.ValidationError and leave the roster untouched.
func (r *Roster) Add(id int, name string, score int) (*student.Student, error) {
	s, err := student.New(id, name, score)
	if err != nil {
		return nil, err
	}
	r.Append(s)
	return s, nil
}

// Append adds already-built students in order. Nil entries are skipped.
func (r *Roster) Append(students ...*student.Student) {
	for _, s := range students {
		if s == nil {
			continue
		}
		r.students = append(r.students, s)
		r.accepted++
	}
}

// FindByID returns the first student with the given id.
func (r *Roster) FindByID(id int) (*student.Student, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return r.students[idx], nil
}

// Update replaces name and score of the first student with the given id.
func (r *Roster) Update(id int, name string, score int) (*student.Student, error) {
	s, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.Update(name, score); err != nil {
		return nil, err
	}
	return s, nil
}

// Remove drops the first student with the given id and returns it.
func (r *Roster) Remove(id int) (*student.Student, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	s := r.students[idx]
	r.students = slices.Delete(r.students, idx, idx+1)
	return s, nil
}

// Reset replaces the whole list, e.g. after loading from disk.
func (r *Roster) Reset(students []*student.Student) {
	r.students = nil
	r.Append(students...)
}

func (r *Roster) indexOf(id int) int {
	for i, s := range r.students {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// SortByID orders ascending by id. The sort is stable.
func (r *Roster) SortByID() {
	slices.SortStableFunc(r.students, student.Compare)
}

// SortByName orders lexicographically by name. The sort is stable.
func (r *Roster) SortByName() {
	slices.SortStableFunc(r.students, func(a, b *student.Student) int {
		return strings.Compare(a.Name(), b.Name())
	})
}

// SortByScore orders by score, highest first. The sort is stable.
func (r *Roster) SortByScore() {
	slices.SortStableFunc(r.students, func(a, b *student.Student) int {
		return cmp.Compare(b.TestScore(), a.TestScore())
	})
}

// Students returns the current order. The slice is a copy; the students are not.
func (r *Roster) Students() []*student.Student {
	return slices.Clone(r.students)
}

// Len is the number of students currently on the roster.
func (r *Roster) Len() int {
	return len(r.students)
}

// Accepted counts every student this roster has taken in, including ones
// removed since.
func (r *Roster) Accepted() int {
	return r.accepted
}
