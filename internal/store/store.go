package store

import (
	"context"
	"fmt"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// Row is a flat ordered sequence of cell values aligned to the schema.
type Row []string

// TabularStore is a durable ordered collection of rows under a fixed schema.
// Data rows are addressed by 1-based position; the header row is reserved
// and never returned by ScanAll. Key uniqueness is the caller's concern,
// not the store's.
type TabularStore interface {
	// EnsureInitialized writes the header row if the table is empty.
	// Idempotent: a table that already has headers is left untouched.
	EnsureInitialized(ctx context.Context) error

	// ScanAll returns every data row in storage order.
	ScanAll(ctx context.Context) ([]Row, error)

	// AppendRow adds a row at the end of the table.
	AppendRow(ctx context.Context, row Row) error

	// ReplaceRow overwrites the full contents of the data row at the given
	// 1-based position. Returns ErrRowNotFound when the position is out of
	// range.
	ReplaceRow(ctx context.Context, pos int, row Row) error

	// FindPosition scans data rows from the first and returns the position
	// of the first row the predicate matches, or ErrRowNotFound.
	FindPosition(ctx context.Context, match func(Row) bool) (int, error)

	// DeleteAllDataRows removes every row except the header. Irreversible.
	DeleteAllDataRows(ctx context.Context) error

	Close() error
}

// New builds the backend selected by store.backend.
func New(cfg *config.Config, sch *schema.Schema) (TabularStore, error) {
	switch cfg.Store.Backend {
	case "excel":
		return NewExcelStore(cfg.Store.Excel.Path, cfg.Store.Excel.Sheet, sch)
	case "mysql":
		return NewMySQLStore(cfg, sch)
	case "memory":
		return NewMemoryStore(sch), nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidStoreBackend, cfg.Store.Backend)
	}
}

// normalize pads a scanned row with empty cells up to the schema width, so
// predicates and the mapper can index columns without bounds checks.
func normalize(cells []string, width int) Row {
	row := make(Row, width)
	copy(row, cells)
	return row
}
