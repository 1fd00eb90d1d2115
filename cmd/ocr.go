package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/images"
	"github.com/numerador-esportivo/numerador/internal/models"
	"github.com/numerador-esportivo/numerador/internal/ocr"
	"github.com/spf13/cobra"
)

func newOCRCmd() *cobra.Command {
	var (
		provider        string
		model           string
		discipline      string
		output          string
		format          string
		reportPath      string
		concurrency     int
		credentialsFile string
	)

	cmd := &cobra.Command{
		Use:   "ocr [images or directories...]",
		Short: "Recognize bib numbers in image files and export them",
		Long: `Runs every image through the OCR provider in the order given and writes
one "name;digits" line per image. Directories are expanded to their .jpg, .jpeg
and .png files sorted by name.

Any OCR failure aborts the run and no export is written.`,
		Example: `  # Recognize a folder of photos with Cloud Vision
  numerador ocr ./finish-line --output numerador_ocr.csv

  # Four parallel requests, parquet output and a YAML report
  numerador ocr ./photos --concurrency 4 --format parquet --report run.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			items, err := loadImages(args)
			if err != nil {
				return err
			}

			if provider == "" {
				provider = ocr.DefaultProvider()
			}
			detector, err := ocr.NewDetector(provider, model, newResolver(credentialsFile))
			if err != nil {
				return err
			}

			svc := ocr.NewService(detector)
			svc.Concurrency = concurrency
			d := ocr.ParseDiscipline(discipline)

			out := cmd.OutOrStdout()
			result := svc.Run(cmd.Context(), items, d, func(p ocr.Progress) {
				if p.Row == nil {
					slog.Info("Processing image", "progress", fmt.Sprintf("%d/%d", p.Done, p.Total), "percent", percent(p.Done, p.Total))
					return
				}
				fmt.Fprintf(out, "%s OCR: %s\n", d.Glyph(), p.Row.Line())
			})

			if reportPath != "" {
				report := export.NewReport(provider, string(d), len(items), result.Rows, result.Err)
				if err := report.SaveYAML(reportPath); err != nil {
					return err
				}
				slog.Info("Report written", "path", reportPath)
			}

			if result.Err != nil {
				return fmt.Errorf("%w (check the OCR credentials)", result.Err)
			}

			f, err := result.Export(exportFormat)
			if err != nil {
				return err
			}
			if output == "" {
				output = f.Name
			}
			if err := os.WriteFile(output, f.Data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			slog.Info("Export written", "path", output, "rows", len(result.Rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider (vision, gemini, ollama, openai, tesseract); defaults to NUMERADOR_OCR_PROVIDER or vision")
	cmd.Flags().StringVar(&model, "model", "", "Model name for LLM providers, or language for tesseract")
	cmd.Flags().StringVar(&discipline, "discipline", string(ocr.Running), "Discipline shown on the progress marker (Running, Cycling, Swimming)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to numerador_ocr.csv or numerador_ocr.parquet)")
	cmd.Flags().StringVar(&format, "format", "csv", "Export format (csv or parquet)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Optional path of a YAML run report")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Maximum parallel OCR calls")
	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Well-known credential file used when no secret is injected")

	return cmd
}

// loadImages reads the given files, expanding directories, preserving
// argument order.
func loadImages(paths []string) ([]models.ImageItem, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if !images.Allowed(p) {
				return nil, fmt.Errorf("unsupported file type: %s (allowed: .jpg, .jpeg, .png)", p)
			}
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.Type().IsRegular() && images.Allowed(e.Name()) {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, ocr.ErrNoImages
	}

	items := make([]models.ImageItem, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		if len(data) > images.MaxUploadSize {
			return nil, fmt.Errorf("file too large: %s (max 10MB)", f)
		}
		items = append(items, models.ImageItem{Name: filepath.Base(f), Data: data})
	}
	return items, nil
}

// percent is the share of images processed, truncated to a whole number.
func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return 100 * done / total
}
