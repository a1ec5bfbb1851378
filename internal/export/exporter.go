package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgsentry/pgsentry/internal/models"
)

// Error wraps a failed export. The view's state is unaffected; the host
// reports the failure and carries on.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export failed: %v", e.Err)
	}
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// WriteCSV writes the given rows as CSV. The header comes from the grid's
// columns; field quoting and escaping follow encoding/csv. Zero rows still
// produce the header line.
func WriteCSV(w io.Writer, columns []models.Column, rows []models.Row) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				record[i] = row[i]
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVString renders rows as a CSV document in memory
func CSVString(columns []models.Column, rows []models.Row) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, columns, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// TSVRow renders a single row as one tab-separated line. Tabs and
// newlines inside cells are replaced with spaces so the line stays a
// single clipboard-friendly record.
func TSVRow(row models.Row) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = flattenCell(cell)
	}
	return strings.Join(cells, "\t")
}

// TSVString renders header plus rows as tab-separated text
func TSVString(columns []models.Column, rows []models.Row) string {
	var b strings.Builder
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = flattenCell(col.Name)
	}
	b.WriteString(strings.Join(header, "\t"))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(TSVRow(row))
	}
	return b.String()
}

func flattenCell(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// WriteJSON writes rows as a pretty-printed JSON array of objects keyed
// by column name
func WriteJSON(w io.Writer, columns []models.Column, rows []models.Row) error {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col.Name] = row[i]
			} else {
				record[col.Name] = ""
			}
		}
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ToFile exports rows to a new file under dir, named after the view and
// stamped so repeated exports never collide. Returns the written path.
// Supported formats: "csv", "json".
func ToFile(dir, viewSlug, format string, columns []models.Column, rows []models.Row) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &Error{Path: dir, Err: err}
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("pgsentry_%s_%s_%s.%s", viewSlug, stamp, shortID(), format)
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	switch format {
	case "json":
		err = WriteJSON(file, columns, rows)
	case "csv":
		err = WriteCSV(file, columns, rows)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}

	if err := file.Sync(); err != nil {
		return "", &Error{Path: path, Err: err}
	}
	return path, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
