//go:build !cgo

package tesseract

import "context"

func (t *Tesseract) DetectText(ctx context.Context, image []byte) (string, error) {
	return "", ErrUnavailable
}
