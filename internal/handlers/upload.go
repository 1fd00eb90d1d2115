package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/numerador-esportivo/numerador/internal/images"
	"github.com/numerador-esportivo/numerador/internal/labeling"
	"github.com/numerador-esportivo/numerador/internal/models"
)

const maxMultipartMemory = 32 << 20

// readUploads returns the images posted in the "files" field, in the order
// the client sent them.
func readUploads(r *http.Request) ([]models.ImageItem, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		return nil, labeling.ErrNoFiles
	}

	items := make([]models.ImageItem, 0, len(headers))
	for _, header := range headers {
		item, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func readUpload(header *multipart.FileHeader) (models.ImageItem, error) {
	if !images.Allowed(header.Filename) {
		return models.ImageItem{}, fmt.Errorf("unsupported file type: %s (allowed: .jpg, .jpeg, .png)", header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return models.ImageItem{}, fmt.Errorf("failed to read file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, images.MaxUploadSize+1))
	if err != nil {
		return models.ImageItem{}, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) > images.MaxUploadSize {
		return models.ImageItem{}, fmt.Errorf("file too large: %s (max 10MB)", header.Filename)
	}

	return models.ImageItem{Name: header.Filename, Data: data}, nil
}
