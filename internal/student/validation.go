package student

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field names used as keys in ValidationError.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldTestScore = "test_score"
)

// FieldDelimiter separates the fields of a saved record. Names may not
// contain it or a line break.
const FieldDelimiter = ";"

var (
	ErrIDNotPositive = validation.NewError("validation_student_id", "must be a positive integer")
	ErrNameBlank     = validation.NewError("validation_student_name", "must not be blank")
	ErrNameDelimiter = validation.NewError("validation_student_name_delimiter", "must not contain ';' or a line break")
	ErrScoreRange    = validation.NewError("validation_student_score", "must be between 0 and 100")
)

var (
	// Required rejects the zero id; Min alone skips zero values.
	idRules = []validation.Rule{
		validation.Required.ErrorObject(ErrIDNotPositive),
		validation.Min(1).ErrorObject(ErrIDNotPositive),
	}
	nameRules = []validation.Rule{
		validation.By(notBlank),
		validation.By(storable),
	}
	scoreRules = []validation.Rule{
		validation.Min(MinScore).ErrorObject(ErrScoreRange),
		validation.Max(MaxScore).ErrorObject(ErrScoreRange),
	}
)

// ValidationError reports every field of a student record that was rejected.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "student: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// Has reports whether the named field failed validation.
func (e *ValidationError) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

type record struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TestScore int    `json:"test_score"`
}

// Validate checks a full record without building anything.
func Validate(id int, name string, testScore int) error {
	r := record{ID: id, Name: name, TestScore: testScore}
	err := validation.ValidateStruct(&r,
		validation.Field(&r.ID, idRules...),
		validation.Field(&r.Name, nameRules...),
		validation.Field(&r.TestScore, scoreRules...),
	)
	var errs validation.Errors
	if errors.As(err, &errs) {
		return &ValidationError{Fields: errs}
	}
	return err
}

// ValidateName checks a name on its own.
func ValidateName(name string) error {
	return single(FieldName, validation.Validate(name, nameRules...))
}

// ValidateTestScore checks a score on its own.
func ValidateTestScore(score int) error {
	return single(FieldTestScore, validation.Validate(score, scoreRules...))
}

func single(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Fields: validation.Errors{field: err}}
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return ErrNameBlank
	}
	return nil
}

func storable(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, FieldDelimiter+"\r\n") {
		return ErrNameDelimiter
	}
	return nil
}
