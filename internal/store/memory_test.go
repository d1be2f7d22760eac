package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

func testRow(sch *schema.Schema, student, course string) Row {
	row := make(Row, sch.Width())
	row[sch.IndexOf(schema.ColStudentName)] = student
	row[sch.IndexOf(schema.ColCourse)] = course
	return row
}

func TestMemoryStoreAppendAndScan(t *testing.T) {
	sch := schema.New(nil)
	s := NewMemoryStore(sch)
	ctx := context.Background()

	require.NoError(t, s.EnsureInitialized(ctx))

	rows, err := s.ScanAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Avery Park", "MPM1D")))
	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Sam Ruiz", "SNC2D")))

	rows, err = s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Avery Park", rows[0][sch.IndexOf(schema.ColStudentName)])
	assert.Equal(t, "SNC2D", rows[1][sch.IndexOf(schema.ColCourse)])
}

func TestMemoryStoreReplaceRow(t *testing.T) {
	sch := schema.New(nil)
	s := NewMemoryStore(sch)
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Avery Park", "MPM1D")))
	require.NoError(t, s.ReplaceRow(ctx, 1, testRow(sch, "Avery Park", "ENG1D")))

	rows, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ENG1D", rows[0][sch.IndexOf(schema.ColCourse)])

	err = s.ReplaceRow(ctx, 2, testRow(sch, "Nobody", "X"))
	assert.ErrorIs(t, err, errors.ErrRowNotFound)
	err = s.ReplaceRow(ctx, 0, testRow(sch, "Nobody", "X"))
	assert.ErrorIs(t, err, errors.ErrRowNotFound)
}

func TestMemoryStoreFindPosition(t *testing.T) {
	sch := schema.New(nil)
	s := NewMemoryStore(sch)
	ctx := context.Background()
	studentIdx := sch.IndexOf(schema.ColStudentName)

	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Avery Park", "MPM1D")))
	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Sam Ruiz", "MPM1D")))

	pos, err := s.FindPosition(ctx, func(r Row) bool { return r[studentIdx] == "Sam Ruiz" })
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	_, err = s.FindPosition(ctx, func(r Row) bool { return r[studentIdx] == "Nobody" })
	assert.ErrorIs(t, err, errors.ErrRowNotFound)
}

func TestMemoryStoreDeleteAllDataRows(t *testing.T) {
	sch := schema.New(nil)
	s := NewMemoryStore(sch)
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, testRow(sch, "Avery Park", "MPM1D")))
	require.NoError(t, s.DeleteAllDataRows(ctx))

	rows, err := s.ScanAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
