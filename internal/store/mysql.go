package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// MySQLStore hosts the grade table in MySQL. Each data row is stored as a
// JSON-encoded cell array under its 1-based position, keeping the same
// positional contract as the workbook backend. The header row is implicit:
// the schema owns the column names, so EnsureInitialized only has to create
// the table.
type MySQLStore struct {
	db     *sql.DB
	table  string
	schema *schema.Schema
}

func NewMySQLStore(cfg *config.Config, sch *schema.Schema) (*MySQLStore, error) {
	db, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	db.SetMaxOpenConns(cfg.Store.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Store.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Store.Database.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	return &MySQLStore{
		db:     db,
		table:  cfg.Store.Database.Table,
		schema: sch,
	}, nil
}

func (s *MySQLStore) EnsureInitialized(ctx context.Context) error {
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS `%s` (pos BIGINT NOT NULL PRIMARY KEY, cells JSON NOT NULL)",
		s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *MySQLStore) ScanAll(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("SELECT cells FROM `%s` ORDER BY pos", s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan table %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var encoded []byte
		if err := rows.Scan(&encoded); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal(encoded, &cells); err != nil {
			return nil, fmt.Errorf("corrupt row in table %s: %w", s.table, err)
		}
		out = append(out, normalize(cells, s.schema.Width()))
	}
	return out, rows.Err()
}

func (s *MySQLStore) AppendRow(ctx context.Context, row Row) error {
	encoded, err := json.Marshal(row)
	if err != nil {
		return err
	}

	// Positions stay contiguous because rows are only ever replaced in place
	// or bulk-deleted, never removed individually.
	query := fmt.Sprintf(
		"INSERT INTO `%s` (pos, cells) SELECT COALESCE(MAX(pos), 0) + 1, ? FROM `%s` AS prev",
		s.table, s.table)
	if _, err := s.db.ExecContext(ctx, query, encoded); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (s *MySQLStore) ReplaceRow(ctx context.Context, pos int, row Row) error {
	encoded, err := json.Marshal(row)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE `%s` SET cells = ? WHERE pos = ?", s.table)
	result, err := s.db.ExecContext(ctx, query, encoded, pos)
	if err != nil {
		return fmt.Errorf("failed to replace row %d: %w", pos, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// MySQL reports zero affected rows for identical contents too, so
		// distinguish a no-op update from a missing position.
		var exists bool
		check := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM `%s` WHERE pos = ?)", s.table)
		if err := s.db.QueryRowContext(ctx, check, pos).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: data row %d", errors.ErrRowNotFound, pos)
		}
	}
	return nil
}

func (s *MySQLStore) FindPosition(ctx context.Context, match func(Row) bool) (int, error) {
	// Linear scan, same as the workbook backend. Tables are class-roster
	// sized, so no index is kept.
	query := fmt.Sprintf("SELECT pos, cells FROM `%s` ORDER BY pos", s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to scan table %s: %w", s.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var encoded []byte
		if err := rows.Scan(&pos, &encoded); err != nil {
			return 0, err
		}
		var cells []string
		if err := json.Unmarshal(encoded, &cells); err != nil {
			return 0, fmt.Errorf("corrupt row in table %s: %w", s.table, err)
		}
		if match(normalize(cells, s.schema.Width())) {
			return pos, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return 0, errors.ErrRowNotFound
}

func (s *MySQLStore) DeleteAllDataRows(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM `%s`", s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", s.table, err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
