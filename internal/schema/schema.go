package schema

import "strings"

// Column names shared by the store header row and the record mapper.
// The order they appear in the table is fixed by New and never changes
// for the lifetime of a store.
const (
	ColTimestamp      = "Timestamp"
	ColTeacherEmail   = "Teacher Email"
	ColTeacherName    = "Teacher Name"
	ColCourse         = "Course"
	ColStudentName    = "Student Name"
	ColPercentageMark = "Percentage Mark"
	ColClassesMissed  = "Classes Missed"
	ColTimesLate      = "Times Late"
	ColComment        = "Comment"
	ColLastModified   = "Last Modified"
)

// DefaultSkills is the learning-skill set used when none is configured.
var DefaultSkills = []string{
	"Responsibility",
	"Organization",
	"Independent Work",
	"Collaboration",
	"Initiative",
	"Self-Regulation",
}

// Schema is the ordered column list of a grade table. Skill columns sit
// between the fixed leading columns and the trailing Comment/Last Modified
// pair, one column per configured skill, in declared order.
type Schema struct {
	columns []string
	skills  []string
	isSkill map[string]bool
	index   map[string]int
}

func New(skills []string) *Schema {
	if len(skills) == 0 {
		skills = DefaultSkills
	}

	columns := []string{
		ColTimestamp,
		ColTeacherEmail,
		ColTeacherName,
		ColCourse,
		ColStudentName,
		ColPercentageMark,
		ColClassesMissed,
		ColTimesLate,
	}
	columns = append(columns, skills...)
	columns = append(columns, ColComment, ColLastModified)

	s := &Schema{
		columns: columns,
		skills:  append([]string(nil), skills...),
		isSkill: make(map[string]bool, len(skills)),
		index:   make(map[string]int, len(columns)),
	}
	for _, skill := range skills {
		s.isSkill[skill] = true
	}
	for i, column := range columns {
		s.index[column] = i
	}
	return s
}

// Columns returns the header row, in order.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Skills returns the configured skill names, in column order.
func (s *Schema) Skills() []string {
	return append([]string(nil), s.skills...)
}

// Width is the number of columns.
func (s *Schema) Width() int {
	return len(s.columns)
}

// IndexOf returns the 0-based column index, or -1 for an unknown column.
func (s *Schema) IndexOf(column string) int {
	if i, ok := s.index[column]; ok {
		return i
	}
	return -1
}

func (s *Schema) IsSkill(column string) bool {
	return s.isSkill[column]
}

// SnakeKey converts a column name to the lower-snake-case key the mapper
// dispatches on, e.g. "Teacher Email" -> "teacher_email".
func SnakeKey(column string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(column), " ", "_"))
}
