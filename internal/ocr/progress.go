package ocr

import (
	"fmt"
	"strings"
)

// Discipline selects the athlete glyph drawn on the progress bar.
type Discipline string

const (
	Running  Discipline = "Running"
	Cycling  Discipline = "Cycling"
	Swimming Discipline = "Swimming"
)

// Disciplines lists the selectable disciplines in display order.
var Disciplines = []Discipline{Running, Cycling, Swimming}

const defaultGlyph = "🏃‍♂️"

var glyphs = map[Discipline]string{
	Running:  "🏃‍♂️",
	Cycling:  "🚴",
	Swimming: "🏊",
}

// ParseDiscipline normalizes a user supplied discipline, accepting the
// Portuguese names as aliases. Unknown values are returned unchanged.
func ParseDiscipline(s string) Discipline {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running", "corrida":
		return Running
	case "cycling", "ciclismo":
		return Cycling
	case "swimming", "natação", "natacao":
		return Swimming
	}
	return Discipline(s)
}

// Glyph is the marker for d, or the running glyph for unknown disciplines.
func (d Discipline) Glyph() string {
	if g, ok := glyphs[d]; ok {
		return g
	}
	return defaultGlyph
}

const (
	barWidth = 400
	barX     = 20
)

// ProgressWidth is the filled width of the bar after done of total images.
func ProgressWidth(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return int(float64(done) / float64(total) * barWidth)
}

// ProgressSVG draws the progress bar with the discipline marker riding at the
// end of the filled segment.
func ProgressSVG(done, total int, d Discipline) string {
	pct := ProgressWidth(done, total)
	return fmt.Sprintf(`<svg width="440" height="70" xmlns="http://www.w3.org/2000/svg">
  <rect x="%d" y="40" width="%d" height="14" rx="7" fill="#e0e0e0"/>
  <rect x="%d" y="40" width="%d" height="14" rx="7" fill="#4caf50"/>
  <circle cx="%d" cy="47" r="20" fill="#ffeb3b" stroke="#444" stroke-width="2"/>
  <text x="%d" y="53" font-size="24" text-anchor="middle">%s</text>
</svg>`, barX, barWidth, barX, pct, barX+pct, barX+pct, d.Glyph())
}
