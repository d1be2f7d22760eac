package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// MemoryStore keeps rows in process memory. Used by tests and as a
// throwaway dev backend; the header row is implicit, as with MySQL.
type MemoryStore struct {
	mu    sync.Mutex
	width int
	rows  []Row
}

func NewMemoryStore(sch *schema.Schema) *MemoryStore {
	return &MemoryStore{width: sch.Width()}
}

func (s *MemoryStore) EnsureInitialized(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) ScanAll(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Row, len(s.rows))
	for i, row := range s.rows {
		out[i] = normalize(row, s.width)
	}
	return out, nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, normalize(row, s.width))
	return nil
}

func (s *MemoryStore) ReplaceRow(ctx context.Context, pos int, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 1 || pos > len(s.rows) {
		return fmt.Errorf("%w: data row %d", errors.ErrRowNotFound, pos)
	}
	s.rows[pos-1] = normalize(row, s.width)
	return nil
}

func (s *MemoryStore) FindPosition(ctx context.Context, match func(Row) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.rows {
		if match(normalize(row, s.width)) {
			return i + 1, nil
		}
	}
	return 0, errors.ErrRowNotFound
}

func (s *MemoryStore) DeleteAllDataRows(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
