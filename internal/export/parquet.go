package export

import (
	"fmt"
	"io"

	"github.com/numerador-esportivo/numerador/internal/models"
	"github.com/parquet-go/parquet-go"
)

// Parquet writes rows as a two-column (name, value) parquet file.
func Parquet(w io.Writer, rows []models.Row) error {
	writer := parquet.NewGenericWriter[models.Row](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
