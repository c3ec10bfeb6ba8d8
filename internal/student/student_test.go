package student_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/roster/internal/student"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		studName   string
		score      int
		wantFields []string
	}{
		{name: "valid", id: 1, studName: "Ann", score: 90},
		{name: "zero score is valid", id: 7, studName: "Cy", score: 0},
		{name: "max score is valid", id: 8, studName: "Di", score: 100},
		{name: "zero id", id: 0, studName: "Ann", score: 90, wantFields: []string{student.FieldID}},
		{name: "negative id", id: -4, studName: "Ann", score: 90, wantFields: []string{student.FieldID}},
		{name: "empty name", id: 1, studName: "", score: 90, wantFields: []string{student.FieldName}},
		{name: "blank name", id: 1, studName: "   \t", score: 90, wantFields: []string{student.FieldName}},
		{name: "name with field delimiter", id: 2, studName: "Bo;x", score: 40, wantFields: []string{student.FieldName}},
		{name: "name with line break", id: 2, studName: "Ann\nLee", score: 40, wantFields: []string{student.FieldName}},
		{name: "score below range", id: 1, studName: "Ann", score: -1, wantFields: []string{student.FieldTestScore}},
		{name: "score above range", id: 1, studName: "Ann", score: 101, wantFields: []string{student.FieldTestScore}},
		{
			name:       "everything wrong",
			id:         0,
			studName:   " ",
			score:      500,
			wantFields: []string{student.FieldID, student.FieldName, student.FieldTestScore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := student.New(tt.id, tt.studName, tt.score)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				require.NotNil(t, s)
				assert.Equal(t, tt.id, s.ID())
				assert.Equal(t, tt.score, s.TestScore())
				assert.Equal(t, student.GradeOf(tt.score), s.Grade())
				assert.Equal(t, tt.score >= student.PassingScore, s.Passed())
				return
			}
			require.Error(t, err)
			assert.Nil(t, s)
			var verr *student.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.True(t, verr.Has(field), "expected %s to be rejected", field)
			}
		})
	}
}

func TestNew_TrimsName(t *testing.T) {
	s, err := student.New(3, "  Ann Lee ", 72)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", s.Name())
}

func TestNew_DerivesForEveryValidScore(t *testing.T) {
	for score := student.MinScore; score <= student.MaxScore; score++ {
		s, err := student.New(1, "Ann", score)
		require.NoError(t, err)
		assert.Equal(t, student.GradeOf(score), s.Grade(), "score %d", score)
		assert.Equal(t, score >= 50, s.Passed(), "score %d", score)
	}
}

func TestGradeOf_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  student.Grade
	}{
		{0, student.GradeF},
		{49, student.GradeF},
		{50, student.GradeD},
		{59, student.GradeD},
		{60, student.GradeC},
		{69, student.GradeC},
		{70, student.GradeB},
		{79, student.GradeB},
		{80, student.GradeA},
		{100, student.GradeA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, student.GradeOf(tt.score), "GradeOf(%d)", tt.score)
	}
}

func TestGradeOf_Monotonic(t *testing.T) {
	rank := map[student.Grade]int{}
	for i, g := range student.Grades {
		rank[g] = len(student.Grades) - i
	}
	prev := rank[student.GradeOf(student.MinScore)]
	for score := student.MinScore + 1; score <= student.MaxScore; score++ {
		cur := rank[student.GradeOf(score)]
		assert.GreaterOrEqual(t, cur, prev, "grade dropped at score %d", score)
		prev = cur
	}
}

func TestSetTestScore(t *testing.T) {
	s, err := student.New(2, "Bo", 40)
	require.NoError(t, err)
	assert.Equal(t, student.GradeF, s.Grade())
	assert.False(t, s.Passed())

	require.NoError(t, s.SetTestScore(85))
	assert.Equal(t, 85, s.TestScore())
	assert.Equal(t, student.GradeA, s.Grade())
	assert.True(t, s.Passed())

	for _, bad := range []int{-1, 101, 1000} {
		err := s.SetTestScore(bad)
		require.Error(t, err)
		assert.True(t, student.IsValidationError(err))
		assert.Equal(t, 85, s.TestScore(), "score must be unchanged after %d", bad)
		assert.Equal(t, student.GradeA, s.Grade())
		assert.True(t, s.Passed())
	}
}

func TestSetName(t *testing.T) {
	s, err := student.New(2, "Bo", 40)
	require.NoError(t, err)

	require.NoError(t, s.SetName("Bo Diddley"))
	assert.Equal(t, "Bo Diddley", s.Name())

	err = s.SetName("  ")
	require.Error(t, err)
	var verr *student.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(student.FieldName))
	assert.Equal(t, "Bo Diddley", s.Name())
}

func TestUpdate_IsAtomic(t *testing.T) {
	s, err := student.New(5, "Eve", 65)
	require.NoError(t, err)

	err = s.Update("Evelyn", 120)
	require.Error(t, err)
	assert.Equal(t, "Eve", s.Name(), "name must not change when score is invalid")
	assert.Equal(t, 65, s.TestScore())

	require.NoError(t, s.Update("Evelyn", 75))
	assert.Equal(t, "Evelyn", s.Name())
	assert.Equal(t, student.GradeB, s.Grade())
}

func TestCompare(t *testing.T) {
	a, err := student.New(1, "Zed", 10)
	require.NoError(t, err)
	b, err := student.New(2, "Amy", 90)
	require.NoError(t, err)

	assert.Negative(t, student.Compare(a, b))
	assert.Positive(t, student.Compare(b, a))
	assert.Zero(t, student.Compare(a, a))
}
