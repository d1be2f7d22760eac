package store

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// ExcelStore hosts the grade table in an xlsx workbook on disk. Sheet row 1
// is the header; data row position N lives at sheet row N+1. Every mutation
// saves the workbook.
type ExcelStore struct {
	path   string
	sheet  string
	schema *schema.Schema
	file   *excelize.File
	log    zerolog.Logger
}

func NewExcelStore(path, sheet string, sch *schema.Schema) (*ExcelStore, error) {
	file, err := openOrCreateWorkbook(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	return &ExcelStore{
		path:   path,
		sheet:  sheet,
		schema: sch,
		file:   file,
		log:    logger.Get(),
	}, nil
}

func openOrCreateWorkbook(path, sheet string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		file, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		// An existing workbook may lack the configured sheet, e.g. when it
		// was created by hand or under an older sheet name.
		if err := ensureSheet(file, sheet); err != nil {
			file.Close()
			return nil, err
		}
		return file, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	file := excelize.NewFile()
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	// excelize seeds new workbooks with a default sheet we do not use.
	if sheet != "Sheet1" {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func ensureSheet(file *excelize.File, sheet string) error {
	index, err := file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if index >= 0 {
		return nil
	}
	_, err = file.NewSheet(sheet)
	return err
}

func (s *ExcelStore) EnsureInitialized(ctx context.Context) error {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}
	if len(rows) > 0 {
		return nil // header already written
	}

	header := s.schema.Columns()
	if err := s.file.SetSheetRow(s.sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	// Cosmetic: freeze and bold the header so the spreadsheet reads like a
	// table when opened by hand.
	if err := s.file.SetPanes(s.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	styleID, err := s.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCell, err := excelize.CoordinatesToCellName(s.schema.Width(), 1)
	if err != nil {
		return err
	}
	if err := s.file.SetCellStyle(s.sheet, "A1", lastCell, styleID); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	s.log.Info().Str("path", s.path).Str("sheet", s.sheet).Msg("Initialized workbook headers")
	return s.save()
}

func (s *ExcelStore) ScanAll(ctx context.Context) ([]Row, error) {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		out = append(out, normalize(cells, s.schema.Width()))
	}
	return out, nil
}

func (s *ExcelStore) AppendRow(ctx context.Context, row Row) error {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(s.sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return s.save()
}

func (s *ExcelStore) ReplaceRow(ctx context.Context, pos int, row Row) error {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}
	if pos < 1 || pos > len(rows)-1 {
		return fmt.Errorf("%w: data row %d", errors.ErrRowNotFound, pos)
	}

	cell, err := excelize.CoordinatesToCellName(1, pos+1)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(s.sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to replace row %d: %w", pos, err)
	}
	return s.save()
}

func (s *ExcelStore) FindPosition(ctx context.Context, match func(Row) bool) (int, error) {
	rows, err := s.ScanAll(ctx)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if match(row) {
			return i + 1, nil
		}
	}
	return 0, errors.ErrRowNotFound
}

func (s *ExcelStore) DeleteAllDataRows(ctx context.Context) error {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
	}

	// Remove bottom-up so remaining positions stay valid mid-loop.
	for i := len(rows); i >= 2; i-- {
		if err := s.file.RemoveRow(s.sheet, i); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", i, err)
		}
	}

	if len(rows) > 1 {
		s.log.Info().Int("rows_removed", len(rows)-1).Msg("Cleared all data rows")
	}
	return s.save()
}

func (s *ExcelStore) Close() error {
	return s.file.Close()
}

func (s *ExcelStore) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
