package model

import "strings"

// StyleFlags is a font style bitmask using the bit positions of PDF font
// descriptor flags as reported by common decoders.
type StyleFlags uint32

const (
	// FlagItalic is bit 1.
	FlagItalic StyleFlags = 1 << 1
	// FlagBold is bit 4.
	FlagBold StyleFlags = 1 << 4
)

// Bold reports whether the bold bit is set
func (f StyleFlags) Bold() bool { return f&FlagBold != 0 }

// Italic reports whether the italic bit is set
func (f StyleFlags) Italic() bool { return f&FlagItalic != 0 }

// String returns a compact description such as "bold|italic".
func (f StyleFlags) String() string {
	var parts []string
	if f.Bold() {
		parts = append(parts, "bold")
	}
	if f.Italic() {
		parts = append(parts, "italic")
	}
	if len(parts) == 0 {
		return "regular"
	}
	return strings.Join(parts, "|")
}

// TextRun is a contiguous string rendered with one font, size and style.
type TextRun struct {
	Text     string
	FontName string
	FontSize float64
	Flags    StyleFlags
}

// Bold reports whether the run is rendered bold
func (r TextRun) Bold() bool { return r.Flags.Bold() }

// Italic reports whether the run is rendered italic
func (r TextRun) Italic() bool { return r.Flags.Italic() }

// TextLine is an ordered sequence of runs sharing a baseline.
type TextLine struct {
	Runs []TextRun
}

// Text returns the concatenated raw text of the line's runs
func (l TextLine) Text() string {
	var sb strings.Builder
	for _, r := range l.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TextBlock is a contiguous region of text lines with its bounding box.
type TextBlock struct {
	BBox  BBox
	Lines []TextLine
}

// Text returns the block's raw text with lines separated by newlines
func (b TextBlock) Text() string {
	lines := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = l.Text()
	}
	return strings.Join(lines, "\n")
}

// Runs returns every run of the block in order.
func (b TextBlock) Runs() []TextRun {
	var runs []TextRun
	for _, l := range b.Lines {
		runs = append(runs, l.Runs...)
	}
	return runs
}
