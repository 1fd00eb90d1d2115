// Package tesseract detects text locally with the Tesseract OCR engine.
//
// Tesseract is only linked into cgo builds. Without cgo every call returns
// ErrUnavailable so the rest of the program builds and runs unchanged.
package tesseract

import (
	"errors"
	"os"
)

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("tesseract support requires a cgo build")

// Tesseract is a local OCR detector.
type Tesseract struct {
	Language string
}

// New returns a detector for language, falling back to TESSERACT_LANG and then "eng".
func New(language string) *Tesseract {
	if language == "" {
		language = os.Getenv("TESSERACT_LANG")
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language}
}
