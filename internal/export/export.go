// Package export serializes labeled rows into downloadable files.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/numerador-esportivo/numerador/internal/models"
)

const (
	ContentTypeCSV     = "text/csv"
	ContentTypeParquet = "application/vnd.apache.parquet"
)

// Format selects the encoding of an export.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat maps a user supplied format name to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: csv, parquet)", s)
	}
}

// File is a named, typed download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CSV renders rows as "name;value" lines joined by newlines, without a trailing
// newline and without quoting.
func CSV(rows []models.Row) []byte {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Line())
	}
	return []byte(strings.Join(lines, "\n"))
}

// Build encodes rows as a File. baseName is the file name without extension,
// e.g. "numerador_manual".
func Build(baseName string, rows []models.Row, format Format) (File, error) {
	switch format {
	case FormatCSV, "":
		return File{
			Name:        baseName + ".csv",
			ContentType: ContentTypeCSV,
			Data:        CSV(rows),
		}, nil
	case FormatParquet:
		var buf bytes.Buffer
		if err := Parquet(&buf, rows); err != nil {
			return File{}, err
		}
		return File{
			Name:        baseName + ".parquet",
			ContentType: ContentTypeParquet,
			Data:        buf.Bytes(),
		}, nil
	default:
		return File{}, fmt.Errorf("unsupported export format: %s", format)
	}
}
