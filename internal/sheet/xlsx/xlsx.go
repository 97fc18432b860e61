// Package xlsx implements the dataset adapter over a local Excel workbook.
// The spreadsheet identifier is the workbook file path.
package xlsx

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
)

// Opener resolves workbook paths relative to an optional base directory.
type Opener struct {
	baseDir string
}

// NewOpener creates an Opener. An empty baseDir means identifiers are used
// as paths verbatim.
func NewOpener(baseDir string) *Opener {
	return &Opener{baseDir: baseDir}
}

// Open loads the workbook and binds the dataset to one sheet. The sheet must
// already exist; a scoring job never creates sheets.
func (o *Opener) Open(_ context.Context, spreadsheetID, sheetName string) (sheet.Dataset, error) {
	path := spreadsheetID
	if o.baseDir != "" {
		path = filepath.Join(o.baseDir, spreadsheetID)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx == -1 {
		_ = f.Close()
		return nil, fmt.Errorf("workbook %s has no sheet %q", path, sheetName)
	}

	return &Dataset{file: f, path: path, sheetName: sheetName}, nil
}

// Dataset is one sheet of an open workbook. Writes go to the in-memory
// workbook and are flushed to disk on every WriteCell, so a crash mid-job
// loses at most the current row.
type Dataset struct {
	file      *excelize.File
	path      string
	sheetName string
}

func (d *Dataset) ReadCell(_ context.Context, col sheet.Column, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col.Index(), row)
	if err != nil {
		return "", fmt.Errorf("cell coordinates %s%d: %w", col.Letter(), row, err)
	}
	v, err := d.file.GetCellValue(d.sheetName, cell)
	if err != nil {
		return "", fmt.Errorf("read %s!%s: %w", d.sheetName, cell, err)
	}
	return v, nil
}

func (d *Dataset) ColumnLength(ctx context.Context, col sheet.Column) (int, error) {
	n := 0
	for {
		v, err := d.ReadCell(ctx, col, sheet.DataStartRow+n)
		if err != nil {
			return 0, err
		}
		if v == "" {
			return n, nil
		}
		n++
	}
}

func (d *Dataset) WriteCell(_ context.Context, col sheet.Column, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col.Index(), row)
	if err != nil {
		return fmt.Errorf("cell coordinates %s%d: %w", col.Letter(), row, err)
	}
	if err := d.file.SetCellValue(d.sheetName, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", d.sheetName, cell, err)
	}
	if err := d.file.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", d.path, err)
	}
	return nil
}

func (d *Dataset) Close() error {
	return d.file.Close()
}

var _ sheet.Dataset = (*Dataset)(nil)
var _ sheet.Opener = (*Opener)(nil)
