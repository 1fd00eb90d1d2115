package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/numerador-esportivo/numerador/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name     string
		rows     []models.Row
		expected string
	}{
		{
			name:     "no rows",
			rows:     nil,
			expected: "",
		},
		{
			name:     "single row has no trailing newline",
			rows:     []models.Row{{Name: "a.jpg", Value: "42"}},
			expected: "a.jpg;42",
		},
		{
			name: "empty value keeps separator",
			rows: []models.Row{
				{Name: "a.jpg", Value: "042 3"},
				{Name: "b.jpg", Value: ""},
			},
			expected: "a.jpg;042 3\nb.jpg;",
		},
		{
			name:     "values are not quoted",
			rows:     []models.Row{{Name: "foto, final.png", Value: "7"}},
			expected: "foto, final.png;7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(CSV(tt.rows))
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"", "csv", "CSV", " parquet "} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) returned %v", in, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestBuildCSV(t *testing.T) {
	f, err := Build("numerador_ocr", []models.Row{{Name: "a.jpg", Value: "1"}}, FormatCSV)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if f.Name != "numerador_ocr.csv" {
		t.Errorf("Expected numerador_ocr.csv, got %s", f.Name)
	}
	if f.ContentType != "text/csv" {
		t.Errorf("Expected text/csv, got %s", f.ContentType)
	}
	if string(f.Data) != "a.jpg;1" {
		t.Errorf("Unexpected data %q", f.Data)
	}
}

func TestBuildParquet(t *testing.T) {
	rows := []models.Row{
		{Name: "a.jpg", Value: "12"},
		{Name: "b.jpg", Value: ""},
	}

	f, err := Build("numerador_manual", rows, FormatParquet)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if f.Name != "numerador_manual.parquet" {
		t.Errorf("Expected numerador_manual.parquet, got %s", f.Name)
	}

	got, err := parquet.Read[models.Row](bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		t.Fatalf("failed to read parquet: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("Expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, rows[i], got[i])
		}
	}
}

func TestReportSaveYAML(t *testing.T) {
	rows := []models.Row{{Name: "a.jpg", Value: "5"}}
	report := NewReport("vision", "Running", 3, rows, errors.New("vision: quota exceeded"))

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := report.SaveYAML(path); err != nil {
		t.Fatalf("SaveYAML returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "quota exceeded") {
		t.Errorf("report is missing the error message:\n%s", data)
	}

	var loaded Report
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("failed to parse report: %v", err)
	}
	if loaded.Images != 3 || loaded.Processed != 1 {
		t.Errorf("Expected images=3 processed=1, got images=%d processed=%d", loaded.Images, loaded.Processed)
	}
}
