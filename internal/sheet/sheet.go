// Package sheet defines the tabular dataset boundary consumed by the scoring
// pipeline: cell-level reads and writes addressed by column coordinate and
// row number, plus an Opener that resolves a dataset identifier to one sheet.
package sheet

import (
	"context"
	"fmt"
	"strings"
)

// DataStartRow is the first data row of a sheet. Row 1 is reserved for
// headers, matching the ranges the service has always read.
const DataStartRow = 2

// Column is an opaque column coordinate. It is parsed from a letter once at
// job creation and never re-parsed per row. The zero value is invalid; use
// ParseColumn.
type Column int

// ParseColumn converts a spreadsheet column letter ("A", "B", ..., "AA") to
// a Column coordinate.
func ParseColumn(letter string) (Column, error) {
	s := strings.ToUpper(strings.TrimSpace(letter))
	if s == "" {
		return 0, fmt.Errorf("column letter cannot be empty")
	}
	n := 0
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", letter)
		}
		n = n*26 + int(c-'A'+1)
	}
	return Column(n), nil
}

// Letter returns the spreadsheet letter form of the column.
func (c Column) Letter() string {
	n := int(c)
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// Next returns the column immediately to the right.
func (c Column) Next() Column { return c + 1 }

// Index returns the 1-based column number.
func (c Column) Index() int { return int(c) }

// Valid reports whether the column was produced by ParseColumn.
func (c Column) Valid() bool { return c > 0 }

// MarshalJSON emits the letter form so API payloads show "C", not 3.
func (c Column) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Letter() + `"`), nil
}

// UnmarshalJSON accepts the letter form.
func (c *Column) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseColumn(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Dataset is one sheet of one tabular dataset. Implementations must treat
// WriteCell as idempotent: re-writing the same cell with the same value is
// harmless.
type Dataset interface {
	// ReadCell returns the cell content at (col, row). A missing cell reads
	// as the empty string, not an error.
	ReadCell(ctx context.Context, col Column, row int) (string, error)
	// ColumnLength returns the number of contiguous non-blank cells in the
	// column starting at DataStartRow. The first blank cell ends the range.
	ColumnLength(ctx context.Context, col Column) (int, error)
	WriteCell(ctx context.Context, col Column, row int, value string) error
	Close() error
}

// Opener resolves a dataset identifier and sheet name to a Dataset. What the
// identifier means is backend-specific (a workbook path, a database path).
type Opener interface {
	Open(ctx context.Context, spreadsheetID, sheetName string) (Dataset, error)
}
