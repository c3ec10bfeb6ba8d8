// internal/student/student.go
//
// The Student entity: identity, test score and the grade/pass status derived
// from it. Every mutation runs the validation rules first and only assigns
// once all of them pass, so a rejected call never leaves a half-updated record.

package student

import (
	"cmp"
	"fmt"
	"strings"
)

const (
	// MinScore and MaxScore bound a test score (inclusive).
	MinScore = 0
	MaxScore = 100
	// PassingScore is the lowest score that counts as a pass.
	PassingScore = 50
)

// Grade is the letter derived from a test score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

// GradeOf maps a score to its letter grade.
func GradeOf(score int) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	case score >= PassingScore:
		return GradeD
	default:
		return GradeF
	}
}

// Student is a single roster record. The zero value is not usable; build one
// with New.
type Student struct {
	id        int
	name      string
	testScore int
	grade     Grade
	passed    bool
}

// New validates the arguments and returns a Student with its grade and pass
// status already derived. A *ValidationError lists every rejected field.
func New(id int, name string, testScore int) (*Student, error) {
	name = strings.TrimSpace(name)
	if err := Validate(id, name, testScore); err != nil {
		return nil, err
	}
	s := &Student{id: id, name: name}
	s.applyScore(testScore)
	return s, nil
}

// SetName replaces the name after checking it is not blank.
func (s *Student) SetName(name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return err
	}
	s.name = name
	return nil
}

// SetTestScore replaces the score and recomputes grade and pass status.
func (s *Student) SetTestScore(score int) error {
	if err := ValidateTestScore(score); err != nil {
		return err
	}
	s.applyScore(score)
	return nil
}

// Update replaces name and score together; neither changes unless both are valid.
func (s *Student) Update(name string, score int) error {
	name = strings.TrimSpace(name)
	if err := Validate(s.id, name, score); err != nil {
		return err
	}
	s.name = name
	s.applyScore(score)
	return nil
}

func (s *Student) applyScore(score int) {
	s.testScore = score
	s.grade = GradeOf(score)
	s.passed = score >= PassingScore
}

func (s *Student) ID() int {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Student) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *Student) TestScore() int {
	if s == nil {
		return 0
	}
	return s.testScore
}

func (s *Student) Grade() Grade {
	if s == nil {
		return ""
	}
	return s.grade
}

func (s *Student) Passed() bool {
	if s == nil {
		return false
	}
	return s.passed
}

// PassLabel renders the pass status the way the roster prints it.
func (s *Student) PassLabel() string {
	if s.Passed() {
		return "Passed"
	}
	return "Failed"
}

func (s *Student) String() string {
	return fmt.Sprintf("#%d %s · %d (%s, %s)", s.ID(), s.Name(), s.TestScore(), s.Grade(), strings.ToLower(s.PassLabel()))
}

// Compare orders students by id ascending.
func Compare(a, b *Student) int {
	return cmp.Compare(a.ID(), b.ID())
}
