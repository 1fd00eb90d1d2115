package ocr

import (
	"strings"
	"testing"
)

func TestParseDiscipline(t *testing.T) {
	tests := []struct {
		in       string
		expected Discipline
	}{
		{"Running", Running},
		{"cycling", Cycling},
		{"Swimming", Swimming},
		{"Corrida", Running},
		{"Ciclismo", Cycling},
		{"Natação", Swimming},
		{"Triathlon", Discipline("Triathlon")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDiscipline(tt.in); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	if Cycling.Glyph() != "🚴" || Swimming.Glyph() != "🏊" || Running.Glyph() != "🏃‍♂️" {
		t.Error("unexpected glyph table")
	}
	if Discipline("Rowing").Glyph() != Running.Glyph() {
		t.Error("unknown disciplines must fall back to the default glyph")
	}
	if Discipline("").Glyph() != Running.Glyph() {
		t.Error("empty discipline must fall back to the default glyph")
	}
}

func TestProgressWidth(t *testing.T) {
	tests := []struct {
		done, total, expected int
	}{
		{1, 4, 100},
		{4, 4, 400},
		{1, 3, 133},
		{2, 3, 266},
		{0, 3, 0},
		{1, 0, 0},
		{5, 4, 400},
	}
	for _, tt := range tests {
		if got := ProgressWidth(tt.done, tt.total); got != tt.expected {
			t.Errorf("ProgressWidth(%d, %d) = %d, expected %d", tt.done, tt.total, got, tt.expected)
		}
	}
}

func TestProgressSVG(t *testing.T) {
	svg := ProgressSVG(1, 2, Cycling)
	for _, want := range []string{
		`width="440" height="70"`,
		`<rect x="20" y="40" width="400" height="14" rx="7" fill="#e0e0e0"/>`,
		`<rect x="20" y="40" width="200" height="14" rx="7" fill="#4caf50"/>`,
		`<circle cx="220" cy="47"`,
		`<text x="220" y="53" font-size="24" text-anchor="middle">🚴</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q:\n%s", want, svg)
		}
	}
}
