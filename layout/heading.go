package layout

import (
	"math"
	"unicode/utf8"

	"github.com/tsawler/tabmark/model"
)

// DefaultBodyFontSize is used when a page has no measurable text.
const DefaultBodyFontSize = 11.0

// Heading thresholds on the ratio of a line's size to the body size.
const (
	h1Ratio = 1.6
	h2Ratio = 1.35
	h3Ratio = 1.15
)

// HeadingLevel represents the level of a heading (H1-H3)
type HeadingLevel int

const (
	HeadingLevelNone HeadingLevel = iota
	HeadingLevel1                 // H1 - Main title/chapter
	HeadingLevel2                 // H2 - Major section
	HeadingLevel3                 // H3 - Subsection
)

// String returns a string representation of the heading level
func (l HeadingLevel) String() string {
	switch l {
	case HeadingLevel1:
		return "h1"
	case HeadingLevel2:
		return "h2"
	case HeadingLevel3:
		return "h3"
	default:
		return "none"
	}
}

// IsHeading reports whether the level denotes a heading
func (l HeadingLevel) IsHeading() bool {
	return l >= HeadingLevel1 && l <= HeadingLevel3
}

// Prefix returns the Markdown heading prefix ("# ", "## ", "### "), or ""
// for non-headings.
func (l HeadingLevel) Prefix() string {
	switch l {
	case HeadingLevel1:
		return "# "
	case HeadingLevel2:
		return "## "
	case HeadingLevel3:
		return "### "
	default:
		return ""
	}
}

// HeadingLevelFor classifies a font size against the page body size. A
// zero body size is treated as a ratio of 1.
func HeadingLevelFor(size, body float64) HeadingLevel {
	ratio := 1.0
	if body != 0 {
		ratio = size / body
	}
	switch {
	case ratio >= h1Ratio:
		return HeadingLevel1
	case ratio >= h2Ratio:
		return HeadingLevel2
	case ratio >= h3Ratio:
		return HeadingLevel3
	default:
		return HeadingLevelNone
	}
}

// BodyFontSize returns the font size, rounded to one decimal, that renders
// the most characters across all runs of the page. Ties go to the size
// seen first. Pages without text fall back to DefaultBodyFontSize.
func BodyFontSize(blocks []model.TextBlock) float64 {
	counts := make(map[float64]int)
	var order []float64

	for _, b := range blocks {
		for _, l := range b.Lines {
			for _, r := range l.Runs {
				size := math.Round(r.FontSize*10) / 10
				if _, seen := counts[size]; !seen {
					order = append(order, size)
				}
				counts[size] += utf8.RuneCountInString(r.Text)
			}
		}
	}

	best, bestCount := DefaultBodyFontSize, 0
	for _, size := range order {
		if counts[size] > bestCount {
			best, bestCount = size, counts[size]
		}
	}
	return best
}
