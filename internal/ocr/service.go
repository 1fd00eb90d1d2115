// Package ocr runs uploaded images through a text detector and turns the
// recognized text into bib-number rows.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/models"
	"github.com/numerador-esportivo/numerador/internal/providers"
	"golang.org/x/sync/errgroup"
)

// ExportName is the base file name of the OCR export.
const ExportName = "numerador_ocr"

var (
	ErrNoImages      = errors.New("no images to process")
	ErrNotExportable = errors.New("OCR run did not complete; nothing to export")
)

// Progress is reported while a run advances. Row is set once the image at
// Index has been recognized; progress-only updates leave it nil.
type Progress struct {
	Done  int
	Total int
	Index int
	Row   *models.Row
	SVG   string
}

// ProgressFunc receives progress updates. Calls are never concurrent.
type ProgressFunc func(Progress)

// Result is the outcome of one run.
type Result struct {
	Discipline Discipline
	Items      []models.ImageItem
	// Rows holds the rows recognized before the run stopped, in upload order.
	Rows     []models.Row
	Progress string
	Err      error
}

// Exportable reports whether every image was processed.
func (r *Result) Exportable() bool {
	return r.Err == nil && len(r.Rows) == len(r.Items)
}

// Export encodes every row, including rows with an empty value.
func (r *Result) Export(format export.Format) (export.File, error) {
	if !r.Exportable() {
		return export.File{}, ErrNotExportable
	}
	return export.Build(ExportName, r.Rows, format)
}

// Service runs the OCR workflow against a detector.
type Service struct {
	Detector providers.Detector
	// Concurrency bounds parallel detector calls. Values below 2 process
	// images one at a time.
	Concurrency int
}

// NewService creates a sequential OCR service
func NewService(detector providers.Detector) *Service {
	return &Service{Detector: detector, Concurrency: 1}
}

// Run recognizes every image in upload order. The first detector error stops
// the run; the returned Result then carries the error and the rows produced
// before it, and is not exportable.
func (s *Service) Run(ctx context.Context, items []models.ImageItem, discipline Discipline, onProgress ProgressFunc) *Result {
	result := &Result{
		Discipline: discipline,
		Items:      items,
	}
	if len(items) == 0 {
		result.Err = ErrNoImages
		return result
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	slog.Info("Starting OCR run", "images", len(items), "discipline", discipline, "concurrency", s.Concurrency)

	if s.Concurrency > 1 {
		s.runParallel(ctx, result, onProgress)
	} else {
		s.runSequential(ctx, result, onProgress)
	}

	if result.Err != nil {
		slog.Error("OCR run aborted", "processed", len(result.Rows), "images", len(items), "err", result.Err)
		return result
	}

	total := len(items)
	result.Progress = ProgressSVG(total, total, discipline)
	onProgress(Progress{Done: total, Total: total, Index: total - 1, SVG: result.Progress})
	slog.Info("OCR run finished", "images", total)
	return result
}

func (s *Service) runSequential(ctx context.Context, result *Result, onProgress ProgressFunc) {
	total := len(result.Items)
	for i, item := range result.Items {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return
		}

		svg := ProgressSVG(i+1, total, result.Discipline)
		result.Progress = svg
		onProgress(Progress{Done: i + 1, Total: total, Index: i, SVG: svg})

		row, err := s.recognize(ctx, item)
		if err != nil {
			result.Err = err
			return
		}
		result.Rows = append(result.Rows, row)
		onProgress(Progress{Done: i + 1, Total: total, Index: i, Row: &row, SVG: svg})
	}
}

func (s *Service) runParallel(ctx context.Context, result *Result, onProgress ProgressFunc) {
	total := len(result.Items)
	rows := make([]models.Row, total)
	finished := make([]bool, total)

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)

	for i, item := range result.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.recognize(gctx, item)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			rows[i] = row
			finished[i] = true
			done++
			svg := ProgressSVG(done, total, result.Discipline)
			result.Progress = svg
			onProgress(Progress{Done: done, Total: total, Index: i, Row: &row, SVG: svg})
			return nil
		})
	}

	result.Err = g.Wait()

	// keep upload order; on failure only the completed prefix is shown
	for i := range rows {
		if !finished[i] {
			break
		}
		result.Rows = append(result.Rows, rows[i])
	}
}

func (s *Service) recognize(ctx context.Context, item models.ImageItem) (models.Row, error) {
	text, err := s.Detector.DetectText(ctx, item.Data)
	if err != nil {
		return models.Row{}, fmt.Errorf("OCR failed for %s: %w", item.Name, err)
	}
	row := models.Row{Name: item.Name, Value: Value(text)}
	slog.Debug("Recognized image", "name", item.Name, "value", row.Value)
	return row, nil
}
