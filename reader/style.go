package reader

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/tabmark/model"
)

// Font descriptor flag bits (PDF 32000-1, table 123).
const (
	descItalic    = 1 << 6
	descForceBold = 1 << 18
)

// fontStyles maps each page font's base name, without subset prefix, to
// its style flags.
func fontStyles(p pdf.Page) map[string]model.StyleFlags {
	styles := make(map[string]model.StyleFlags)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		base := stripSubset(f.BaseFont())
		if base == "" {
			continue
		}

		desc := f.V.Key("FontDescriptor")
		if desc.IsNull() {
			desc = f.V.Key("DescendantFonts").Index(0).Key("FontDescriptor")
		}
		styles[base] |= flagsFromName(base) | descriptorFlags(desc)
	}
	return styles
}

// stripSubset removes a "ABCDEF+" subset tag from a font name.
func stripSubset(name string) string {
	if i := strings.Index(name, "+"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// flagsFromName infers style from naming conventions such as
// "Helvetica-BoldOblique" or "Arial,Italic".
func flagsFromName(name string) model.StyleFlags {
	lower := strings.ToLower(name)
	var flags model.StyleFlags
	if strings.Contains(lower, "bold") ||
		strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy") ||
		strings.Contains(lower, "semibold") ||
		strings.Contains(lower, "demibold") {
		flags |= model.FlagBold
	}
	if strings.Contains(lower, "italic") ||
		strings.Contains(lower, "oblique") {
		flags |= model.FlagItalic
	}
	return flags
}

// descriptorFlags reads style from a FontDescriptor dictionary.
func descriptorFlags(desc pdf.Value) model.StyleFlags {
	if desc.IsNull() {
		return 0
	}
	var flags model.StyleFlags
	bits := desc.Key("Flags").Int64()
	if bits&descItalic != 0 || desc.Key("ItalicAngle").Float64() != 0 {
		flags |= model.FlagItalic
	}
	if bits&descForceBold != 0 || desc.Key("FontWeight").Float64() >= 600 {
		flags |= model.FlagBold
	}
	return flags
}
