package export

import (
	"github.com/atotto/clipboard"
	"github.com/pgsentry/pgsentry/internal/models"
)

// CopyRow places one row on the system clipboard as a tab-separated line
func CopyRow(row models.Row) error {
	if err := clipboard.WriteAll(TSVRow(row)); err != nil {
		return &Error{Err: err}
	}
	return nil
}

// CopyGrid places the whole filtered view on the clipboard as CSV text
func CopyGrid(columns []models.Column, rows []models.Row) error {
	text, err := CSVString(columns, rows)
	if err != nil {
		return &Error{Err: err}
	}
	if err := clipboard.WriteAll(text); err != nil {
		return &Error{Err: err}
	}
	return nil
}
