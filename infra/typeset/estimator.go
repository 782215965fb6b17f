// Package typeset estimates the rendered height of text paragraphs so the
// fitter can decide whether a comment block overflows its page region. The
// estimate assumes a monospace-like average glyph width, which is good enough
// to drive segmentation decisions without a full layout engine.
package typeset

import (
	"strings"
	"unicode/utf8"

	"github.com/16205/pmereporter/core/textfit"
)

// Config describes the text region the estimator models.
type Config struct {
	// WidthPt is the usable line width in points.
	WidthPt float64 `json:"width_pt"`
	// FontSizePt is the font size in points.
	FontSizePt float64 `json:"font_size_pt"`
	// Leading is the line height as a multiple of the font size.
	Leading float64 `json:"leading"`
}

// SetDefaults fills unset fields with an A4 body-text region.
func (c *Config) SetDefaults() {
	if c.WidthPt == 0 {
		c.WidthPt = 480
	}
	if c.FontSizePt == 0 {
		c.FontSizePt = 10
	}
	if c.Leading == 0 {
		c.Leading = 1.2
	}
}

// glyphWidthRatio approximates the average advance width of a glyph as a
// fraction of the font size.
const glyphWidthRatio = 0.55

// NewEstimator returns a HeightFunc that estimates the height, in points, of
// a paragraph rendered in the configured region. Words wrap at the line
// width; words longer than a line occupy as many lines as they need.
func NewEstimator(cfg Config) textfit.HeightFunc {
	cfg.SetDefaults()
	perLine := int(cfg.WidthPt / (cfg.FontSizePt * glyphWidthRatio))
	if perLine < 1 {
		perLine = 1
	}
	lineHeight := cfg.FontSizePt * cfg.Leading
	return func(text string) float64 {
		lines := 0
		for _, par := range strings.Split(text, "\n") {
			lines += wrappedLines(par, perLine)
		}
		return float64(lines) * lineHeight
	}
}

// wrappedLines counts the lines one paragraph occupies when greedily
// word-wrapped at width runes per line. An empty paragraph still takes a line.
func wrappedLines(par string, width int) int {
	words := strings.Fields(par)
	if len(words) == 0 {
		return 1
	}
	lines := 1
	used := 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if used == 0 {
			used = n
		} else if used+1+n <= width {
			used += 1 + n
		} else {
			lines++
			used = n
		}
		for used > width {
			lines++
			used -= width
		}
	}
	return lines
}
