package ocr

import (
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// ExtractDigits returns every maximal run of decimal digits in text, in order
// of appearance.
func ExtractDigits(text string) []string {
	return digitRun.FindAllString(text, -1)
}

// Value is the exported value for a recognized text: its digit runs joined by
// single spaces, or "" when there are none.
func Value(text string) string {
	return strings.Join(ExtractDigits(text), " ")
}
