package export

import (
	"fmt"
	"os"
	"time"

	"github.com/numerador-esportivo/numerador/internal/models"
	"gopkg.in/yaml.v3"
)

// ReportRow is a single image outcome in a run report
type ReportRow struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Report describes one OCR run for later auditing.
type Report struct {
	Provider   string      `yaml:"provider"`
	Discipline string      `yaml:"discipline"`
	Timestamp  string      `yaml:"timestamp"`
	Images     int         `yaml:"images"`
	Processed  int         `yaml:"processed"`
	Error      string      `yaml:"error,omitempty"`
	Rows       []ReportRow `yaml:"rows"`
}

// NewReport builds a report from the rows produced by a run. runErr may be nil.
func NewReport(provider, discipline string, images int, rows []models.Row, runErr error) Report {
	report := Report{
		Provider:   provider,
		Discipline: discipline,
		Timestamp:  time.Now().Format("2006-01-02_15-04-05"),
		Images:     images,
		Processed:  len(rows),
		Rows:       make([]ReportRow, 0, len(rows)),
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	for _, r := range rows {
		report.Rows = append(report.Rows, ReportRow{Name: r.Name, Value: r.Value})
	}
	return report
}

// SaveYAML writes the report to path.
func (r Report) SaveYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
