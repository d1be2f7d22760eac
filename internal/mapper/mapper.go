package mapper

import (
	"strconv"
	"time"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/store"
)

// Mapper translates between the flat row representation and the nested
// GradeEntry record. It is driven entirely by the schema: skill columns map
// into the skills sub-map, everything else dispatches on its snake-case key.
type Mapper struct {
	schema *schema.Schema
	now    func() time.Time
}

func New(sch *schema.Schema) *Mapper {
	return &Mapper{schema: sch, now: time.Now}
}

// RecordToRow produces one cell per schema column, in schema order.
// Last Modified is always stamped with the current time; Timestamp falls
// back to the current time only when the entry omits it. Absent optional
// numerics become empty cells, never zero.
func (m *Mapper) RecordToRow(entry model.GradeEntry) store.Row {
	now := m.now().UTC().Format(time.RFC3339)

	row := make(store.Row, 0, m.schema.Width())
	for _, column := range m.schema.Columns() {
		if m.schema.IsSkill(column) {
			row = append(row, entry.Skills[column])
			continue
		}

		switch schema.SnakeKey(column) {
		case "timestamp":
			timestamp := entry.Timestamp
			if timestamp == "" {
				timestamp = now
			}
			row = append(row, timestamp)
		case "teacher_email":
			row = append(row, entry.TeacherEmail)
		case "teacher_name":
			row = append(row, entry.TeacherName)
		case "course":
			row = append(row, entry.Course)
		case "student_name":
			row = append(row, entry.Student)
		case "percentage_mark":
			row = append(row, formatFloat(entry.PercentageMark))
		case "classes_missed":
			row = append(row, formatInt(entry.ClassesMissed))
		case "times_late":
			row = append(row, formatInt(entry.TimesLate))
		case "comment":
			row = append(row, entry.Comment)
		case "last_modified":
			row = append(row, now)
		default:
			row = append(row, "")
		}
	}
	return row
}

// RowToRecord rebuilds the nested record from a flat row. Cells beyond the
// row's length read as empty.
func (m *Mapper) RowToRecord(row store.Row) model.GradeEntry {
	entry := model.GradeEntry{
		Skills: make(map[string]string, len(m.schema.Skills())),
	}

	for i, column := range m.schema.Columns() {
		var value string
		if i < len(row) {
			value = row[i]
		}

		if m.schema.IsSkill(column) {
			entry.Skills[column] = value
			continue
		}

		switch schema.SnakeKey(column) {
		case "timestamp":
			entry.Timestamp = value
		case "teacher_email":
			entry.TeacherEmail = value
		case "teacher_name":
			entry.TeacherName = value
		case "course":
			entry.Course = value
		case "student_name":
			entry.Student = value
		case "percentage_mark":
			entry.PercentageMark = parseFloat(value)
		case "classes_missed":
			entry.ClassesMissed = parseInt(value)
		case "times_late":
			entry.TimesLate = parseInt(value)
		case "comment":
			entry.Comment = value
		case "last_modified":
			entry.LastModified = value
		}
	}
	return entry
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseInt(value string) *int {
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}
