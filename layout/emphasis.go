package layout

import (
	"strings"

	"github.com/tsawler/tabmark/model"
)

// FormatRun trims a run's text and wraps it in emphasis markers matching
// its style: ***x*** for bold italic, **x** for bold, *x* for italic.
// Blank runs format as "".
func FormatRun(r model.TextRun) string {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return ""
	}
	switch {
	case r.Bold() && r.Italic():
		return "***" + text + "***"
	case r.Bold():
		return "**" + text + "**"
	case r.Italic():
		return "*" + text + "*"
	default:
		return text
	}
}

// FormatLine renders the non-blank runs of a line joined by single spaces
// and returns the font size of the last non-blank run. ok is false for
// lines without visible text.
func FormatLine(l model.TextLine) (text string, size float64, ok bool) {
	parts := make([]string, 0, len(l.Runs))
	for _, r := range l.Runs {
		s := FormatRun(r)
		if s == "" {
			continue
		}
		parts = append(parts, s)
		size = r.FontSize
	}
	text = strings.TrimSpace(strings.Join(parts, " "))
	return text, size, text != ""
}

// StripEmphasis removes every emphasis marker from s.
func StripEmphasis(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "**", ""), "*", "")
}

// RenderLine formats a line and, when its size classifies as a heading
// against body, replaces emphasis with the heading prefix.
func RenderLine(l model.TextLine, body float64) (string, bool) {
	text, size, ok := FormatLine(l)
	if !ok {
		return "", false
	}
	if level := HeadingLevelFor(size, body); level.IsHeading() {
		return level.Prefix() + StripEmphasis(text), true
	}
	return text, true
}
