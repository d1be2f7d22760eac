package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnOrder(t *testing.T) {
	s := New([]string{"Responsibility", "Collaboration"})

	want := []string{
		ColTimestamp, ColTeacherEmail, ColTeacherName, ColCourse, ColStudentName,
		ColPercentageMark, ColClassesMissed, ColTimesLate,
		"Responsibility", "Collaboration",
		ColComment, ColLastModified,
	}
	assert.Equal(t, want, s.Columns())
	assert.Equal(t, len(want), s.Width())
}

func TestDefaultSkills(t *testing.T) {
	s := New(nil)

	require.Equal(t, DefaultSkills, s.Skills())
	for _, skill := range DefaultSkills {
		assert.True(t, s.IsSkill(skill), skill)
	}
	assert.False(t, s.IsSkill(ColComment))
}

func TestIndexOf(t *testing.T) {
	s := New(nil)

	assert.Equal(t, 0, s.IndexOf(ColTimestamp))
	assert.Equal(t, 3, s.IndexOf(ColCourse))
	assert.Equal(t, 4, s.IndexOf(ColStudentName))
	assert.Equal(t, s.Width()-1, s.IndexOf(ColLastModified))
	assert.Equal(t, -1, s.IndexOf("No Such Column"))
}

func TestSnakeKey(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"Timestamp", "timestamp"},
		{"Teacher Email", "teacher_email"},
		{"Percentage Mark", "percentage_mark"},
		{"  Times Late ", "times_late"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnakeKey(tt.column))
	}
}
