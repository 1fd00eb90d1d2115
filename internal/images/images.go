// Package images validates uploads and renders display previews.
//
// Previews are for on-screen verification only; OCR always receives the
// original uploaded bytes.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxUploadSize is the largest accepted image, in bytes.
	MaxUploadSize = 10 * 1024 * 1024

	ManualPreviewWidth = 360
	OCRPreviewWidth    = 320
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Allowed reports whether name has an accepted image extension.
func Allowed(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Dimensions decodes only the image header.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Preview scales the image to width pixels, preserving aspect ratio, and
// returns it with its content type. Images already narrower than width are
// returned unchanged.
func Preview(data []byte, width int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if width <= 0 || img.Bounds().Dx() <= width {
		return data, "image/" + format, nil
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	out, contentType := imaging.JPEG, "image/jpeg"
	if format == "png" {
		out, contentType = imaging.PNG, "image/png"
	}
	if err := imaging.Encode(&buf, resized, out); err != nil {
		return nil, "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), contentType, nil
}
