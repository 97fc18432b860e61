// Package sqlite implements the dataset adapter over a sqlite cell grid.
// The spreadsheet identifier is the database path; each sheet is a named
// partition of the cells table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/ahmethakanbesel/similarity-api/internal/platform/sqlite"
	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
)

// Opener resolves database paths relative to an optional base directory.
type Opener struct {
	baseDir string
}

func NewOpener(baseDir string) *Opener {
	return &Opener{baseDir: baseDir}
}

func (o *Opener) Open(_ context.Context, spreadsheetID, sheetName string) (sheet.Dataset, error) {
	path := spreadsheetID
	if o.baseDir != "" && spreadsheetID != ":memory:" {
		path = filepath.Join(o.baseDir, spreadsheetID)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", spreadsheetID, err)
	}

	return &Dataset{db: db, sheetName: sheetName}, nil
}

// Dataset is one sheet of a cell-grid database.
type Dataset struct {
	db        *sqlite.DB
	sheetName string
}

func (d *Dataset) ReadCell(ctx context.Context, col sheet.Column, row int) (string, error) {
	const query = `SELECT value FROM cells WHERE sheet = ? AND col = ? AND row = ?`

	var v string
	err := d.db.QueryRowContext(ctx, query, d.sheetName, col.Index(), row).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s!%s%d: %w", d.sheetName, col.Letter(), row, err)
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

func (d *Dataset) WriteCell(ctx context.Context, col sheet.Column, row int, value string) error {
	const query = `INSERT INTO cells (sheet, col, row, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (sheet, col, row) DO UPDATE SET value = excluded.value`

	_, err := d.db.ExecContext(ctx, query, d.sheetName, col.Index(), row, value)
	if err != nil {
		return fmt.Errorf("write %s!%s%d: %w", d.sheetName, col.Letter(), row, err)
	}
	return nil
}

func (d *Dataset) Close() error {
	return d.db.Close()
}

var _ sheet.Dataset = (*Dataset)(nil)
var _ sheet.Opener = (*Opener)(nil)
