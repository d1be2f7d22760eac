package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/store"
)

func newTestRepository() *Repository {
	sch := schema.New(nil)
	return New(store.NewMemoryStore(sch), sch)
}

func testEntry(student, course string) model.GradeEntry {
	skills := make(map[string]string)
	for _, skill := range schema.DefaultSkills {
		skills[skill] = "G"
	}
	return model.GradeEntry{
		TeacherEmail: "jsmith@school.ca",
		TeacherName:  "J. Smith",
		Course:       course,
		Student:      student,
		Skills:       skills,
		Comment:      "Doing well.",
	}
}

func TestUpsertSameKeyNeverDuplicates(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	comments := []string{"First draft.", "Second draft.", "Final comment."}
	for i, comment := range comments {
		entry := testEntry("Avery Park", "MPM1D")
		entry.Comment = comment

		result, err := repo.Upsert(ctx, entry)
		require.NoError(t, err)
		if i == 0 {
			assert.Equal(t, model.ActionCreated, result.Action)
		} else {
			assert.Equal(t, model.ActionUpdated, result.Action)
		}
		assert.Equal(t, "Avery Park", result.Student)
		assert.Equal(t, "MPM1D", result.Course)
	}

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// Whole-row replace: the survivor carries the last submission's fields.
	assert.Equal(t, "Final comment.", entries[0].Comment)
}

func TestUpsertDistinctKeysNeverCollide(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("Avery Park", "MPM1D"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testEntry("Avery Park", "SNC2D"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testEntry("Sam Ruiz", "MPM1D"))
	require.NoError(t, err)

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestListAllEmptyStore(t *testing.T) {
	repo := newTestRepository()

	entries, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestFiltersMatchExactly(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	first := testEntry("Avery Park", "MPM1D")
	first.TeacherEmail = "jsmith@school.ca"
	second := testEntry("Sam Ruiz", "SNC2D")
	second.TeacherEmail = "mlee@school.ca"
	_, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	byTeacher, err := repo.FilterByTeacher(ctx, "jsmith@school.ca")
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, "Avery Park", byTeacher[0].Student)

	// Case-sensitive, no partial match.
	byTeacher, err = repo.FilterByTeacher(ctx, "JSMITH@school.ca")
	require.NoError(t, err)
	assert.Empty(t, byTeacher)
	byTeacher, err = repo.FilterByTeacher(ctx, "jsmith")
	require.NoError(t, err)
	assert.Empty(t, byTeacher)

	byStudent, err := repo.FilterByStudent(ctx, "Sam Ruiz")
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, "SNC2D", byStudent[0].Course)
}

func TestClearAll(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("Avery Park", "MPM1D"))
	require.NoError(t, err)
	require.NoError(t, repo.ClearAll(ctx))

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportCSVEscapesSpecialCharacters(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	entry := testEntry("Avery Park", "MPM1D")
	entry.Comment = "Hello, \"world\"\nsee you"
	_, err := repo.Upsert(ctx, entry)
	require.NoError(t, err)

	out, err := repo.ExportCSV(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Timestamp,Teacher Email,Teacher Name,Course,Student Name"))
	assert.Contains(t, out, "\"Hello, \"\"world\"\"\nsee you\"")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestExportCSVEmptyStoreIsHeaderOnly(t *testing.T) {
	repo := newTestRepository()

	out, err := repo.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSummarize(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	lengths := map[string]int{"Avery Park": 10, "Sam Ruiz": 20, "Noa Cohen": 30}
	for student, n := range lengths {
		entry := testEntry(student, "MPM1D")
		entry.Comment = strings.Repeat("x", n)
		_, err := repo.Upsert(ctx, entry)
		require.NoError(t, err)
	}

	report, err := repo.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalEntries)
	assert.Equal(t, 20, report.AverageCommentLength)
	assert.Equal(t, map[string]int{"J. Smith": 3}, report.EntriesByTeacher)
	// No percentage marks recorded: all three group under the empty key.
	assert.Equal(t, map[string]int{"": 3}, report.EntriesByMark)
}

func TestSummarizeEmptyStore(t *testing.T) {
	repo := newTestRepository()

	report, err := repo.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalEntries)
	assert.Equal(t, 0, report.AverageCommentLength)
	assert.Empty(t, report.EntriesByTeacher)
}
