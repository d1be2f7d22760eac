package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/mapper"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/store"
	pkgerrors "github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// Repository enforces the one-row-per-(student, course) invariant over the
// tabular store and serves the query and aggregation operations.
type Repository struct {
	store  store.TabularStore
	mapper *mapper.Mapper
	schema *schema.Schema
	log    zerolog.Logger
}

func New(st store.TabularStore, sch *schema.Schema) *Repository {
	return &Repository{
		store:  st,
		mapper: mapper.New(sch),
		schema: sch,
		log:    logger.Get(),
	}
}

// Upsert replaces the existing row for the entry's (student, course) pair,
// or appends a new one. The replacement is whole-row: every field takes the
// submitted value, there is no partial merge. The find-then-write sequence
// is not atomic against a concurrent writer on the same key; requests are
// expected to run one at a time, last write wins.
func (r *Repository) Upsert(ctx context.Context, entry model.GradeEntry) (model.UpsertResult, error) {
	row := r.mapper.RecordToRow(entry)
	studentIdx := r.schema.IndexOf(schema.ColStudentName)
	courseIdx := r.schema.IndexOf(schema.ColCourse)

	pos, err := r.store.FindPosition(ctx, func(existing store.Row) bool {
		return existing[courseIdx] == entry.Course && existing[studentIdx] == entry.Student
	})
	switch {
	case err == nil:
		if err := r.store.ReplaceRow(ctx, pos, row); err != nil {
			return model.UpsertResult{}, err
		}
		r.log.Info().Str("student", entry.Student).Str("course", entry.Course).
			Int("position", pos).Msg("Grade entry updated")
		return model.UpsertResult{Action: model.ActionUpdated, Student: entry.Student, Course: entry.Course}, nil

	case errors.Is(err, pkgerrors.ErrRowNotFound):
		if err := r.store.AppendRow(ctx, row); err != nil {
			return model.UpsertResult{}, err
		}
		r.log.Info().Str("student", entry.Student).Str("course", entry.Course).
			Msg("Grade entry created")
		return model.UpsertResult{Action: model.ActionCreated, Student: entry.Student, Course: entry.Course}, nil

	default:
		return model.UpsertResult{}, err
	}
}

// ListAll returns every stored entry in storage order. An empty store yields
// an empty slice, not an error.
func (r *Repository) ListAll(ctx context.Context) ([]model.GradeEntry, error) {
	rows, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.GradeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, r.mapper.RowToRecord(row))
	}
	return entries, nil
}

// FilterByTeacher keeps entries whose teacher email exactly equals the
// argument. Case-sensitive, no partial match.
func (r *Repository) FilterByTeacher(ctx context.Context, teacherEmail string) ([]model.GradeEntry, error) {
	return r.filter(ctx, func(e model.GradeEntry) bool {
		return e.TeacherEmail == teacherEmail
	})
}

// FilterByStudent keeps entries whose student name exactly equals the
// argument.
func (r *Repository) FilterByStudent(ctx context.Context, student string) ([]model.GradeEntry, error) {
	return r.filter(ctx, func(e model.GradeEntry) bool {
		return e.Student == student
	})
}

func (r *Repository) filter(ctx context.Context, keep func(model.GradeEntry) bool) ([]model.GradeEntry, error) {
	entries, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.GradeEntry, 0, len(entries))
	for _, entry := range entries {
		if keep(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// ClearAll removes every data row. Irreversible.
func (r *Repository) ClearAll(ctx context.Context) error {
	return r.store.DeleteAllDataRows(ctx)
}

// ExportCSV renders the full table, header included, as RFC 4180 CSV with a
// trailing newline.
func (r *Repository) ExportCSV(ctx context.Context) (string, error) {
	rows, err := r.store.ScanAll(ctx)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(r.schema.Columns()); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Summarize aggregates over all entries: totals, counts by teacher name,
// counts by stored percentage mark, and the mean comment length rounded to
// the nearest integer (0 for an empty store).
func (r *Repository) Summarize(ctx context.Context) (model.SummaryReport, error) {
	entries, err := r.ListAll(ctx)
	if err != nil {
		return model.SummaryReport{}, err
	}

	report := model.SummaryReport{
		TotalEntries:     len(entries),
		EntriesByTeacher: make(map[string]int),
		EntriesByMark:    make(map[string]int),
	}

	totalCommentLength := 0
	for _, entry := range entries {
		report.EntriesByTeacher[entry.TeacherName]++
		report.EntriesByMark[markKey(entry.PercentageMark)]++
		totalCommentLength += utf8.RuneCountInString(entry.Comment)
	}
	if report.TotalEntries > 0 {
		report.AverageCommentLength = int(math.Round(float64(totalCommentLength) / float64(report.TotalEntries)))
	}
	return report, nil
}

func markKey(mark *float64) string {
	if mark == nil {
		return ""
	}
	return strconv.FormatFloat(*mark, 'f', -1, 64)
}
