package reader

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/tabmark/model"
)

// Glyph metrics relative to the font size, measured from the baseline.
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// Grouping thresholds relative to the font size.
const (
	spaceRatio     = 0.15 // horizontal gap that separates words
	baselineRatio  = 0.5  // baseline drift tolerated within a line
	backtrackRatio = 0.5  // leftward jump that starts a new line
	blockGapRatio  = 0.5  // vertical gap, in line heights, that ends a block
)

// thinRect is the largest extent (points) of a rectangle drawn as a ruling.
const thinRect = 2.0

// pageBox is a page's MediaBox in PDF user space.
type pageBox struct {
	x0, y0, x1, y1 float64
}

func (b pageBox) width() float64  { return b.x1 - b.x0 }
func (b pageBox) height() float64 { return b.y1 - b.y0 }

// letter is the fallback MediaBox.
var letter = pageBox{0, 0, 612, 792}

// mediaBox reads /MediaBox from the page or the nearest ancestor.
func mediaBox(p pdf.Page) pageBox {
	v := p.V
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if mb := v.Key("MediaBox"); mb.Len() == 4 {
			x0, y0 := mb.Index(0).Float64(), mb.Index(1).Float64()
			x1, y1 := mb.Index(2).Float64(), mb.Index(3).Float64()
			box := pageBox{math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)}
			if box.width() > 0 && box.height() > 0 {
				return box
			}
			break
		}
		v = v.Key("Parent")
	}
	return letter
}

// glyph is one decoded character in top-left page space.
type glyph struct {
	text     string
	font     string
	size     float64
	flags    model.StyleFlags
	baseline float64
	box      model.BBox
}

// toGlyphs flips decoder glyphs into top-left space, normalizes their text
// and drops whitespace.
func toGlyphs(texts []pdf.Text, box pageBox, styles map[string]model.StyleFlags) []glyph {
	glyphs := make([]glyph, 0, len(texts))
	for _, t := range texts {
		s := norm.NFKC.String(t.S)
		if strings.TrimSpace(s) == "" {
			continue
		}

		size := math.Abs(t.FontSize)
		if size == 0 {
			size = 1
		}
		width := t.W
		if width <= 0 {
			width = 0.5 * size * float64(len([]rune(s)))
		}

		x := t.X - box.x0
		baseline := box.y1 - t.Y
		flags, ok := styles[t.Font]
		if !ok {
			flags = flagsFromName(t.Font)
		}

		glyphs = append(glyphs, glyph{
			text:     s,
			font:     t.Font,
			size:     size,
			flags:    flags,
			baseline: baseline,
			box: model.BBox{
				X0: x,
				Y0: baseline - ascentRatio*size,
				X1: x + width,
				Y1: baseline + descentRatio*size,
			},
		})
	}
	return glyphs
}

// line is a run of glyphs sharing a baseline, in content order.
type line struct {
	glyphs []glyph
	box    model.BBox
}

// groupLines splits the glyph stream wherever the baseline moves or the
// pen jumps back to the left.
func groupLines(glyphs []glyph) []line {
	var lines []line
	for _, g := range glyphs {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			last := cur.glyphs[len(cur.glyphs)-1]
			size := math.Max(g.size, last.size)
			sameBaseline := math.Abs(g.baseline-last.baseline) <= baselineRatio*size
			forward := g.box.X0 >= last.box.X1-backtrackRatio*size
			if sameBaseline && forward {
				cur.glyphs = append(cur.glyphs, g)
				cur.box = cur.box.Union(g.box)
				continue
			}
		}
		lines = append(lines, line{glyphs: []glyph{g}, box: g.box})
	}
	return lines
}

// wordGap reports whether a space separates two adjacent glyphs.
func wordGap(prev, next glyph) bool {
	return next.box.X0-prev.box.X1 > spaceRatio*math.Max(prev.size, next.size)
}

// sameStyle reports whether two glyphs belong in the same run.
func sameStyle(a, b glyph) bool {
	return a.font == b.font &&
		math.Round(a.size*10) == math.Round(b.size*10) &&
		a.flags == b.flags
}

// textLine converts a line into styled runs. Spaces inside a run are kept;
// a gap at a style boundary is dropped because runs are rendered space
// separated.
func (l line) textLine() model.TextLine {
	var runs []model.TextRun
	var sb strings.Builder
	var start glyph

	flush := func() {
		if sb.Len() > 0 {
			runs = append(runs, model.TextRun{
				Text:     sb.String(),
				FontName: start.font,
				FontSize: start.size,
				Flags:    start.flags,
			})
			sb.Reset()
		}
	}

	for i, g := range l.glyphs {
		if i == 0 || !sameStyle(start, g) {
			flush()
			start = g
		} else if wordGap(l.glyphs[i-1], g) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.text)
	}
	flush()
	return model.TextLine{Runs: runs}
}

// groupBlocks merges consecutive lines that are close vertically and
// overlap horizontally.
func groupBlocks(lines []line) []model.TextBlock {
	var blocks []model.TextBlock
	var prev line
	for i, l := range lines {
		if i > 0 {
			cur := &blocks[len(blocks)-1]
			height := prev.box.Height()
			gap := l.box.Y0 - prev.box.Y1
			overlapsX := l.box.X0 <= cur.BBox.X1 && l.box.X1 >= cur.BBox.X0
			if gap >= -height && gap <= blockGapRatio*height && overlapsX {
				cur.Lines = append(cur.Lines, l.textLine())
				cur.BBox = cur.BBox.Union(l.box)
				prev = l
				continue
			}
		}
		blocks = append(blocks, model.TextBlock{BBox: l.box, Lines: []model.TextLine{l.textLine()}})
		prev = l
	}
	return blocks
}

// buildWords splits every line at word gaps.
func buildWords(lines []line) []model.Word {
	var words []model.Word
	for _, l := range lines {
		var sb strings.Builder
		var box model.BBox
		for i, g := range l.glyphs {
			if i > 0 && wordGap(l.glyphs[i-1], g) {
				words = append(words, model.Word{Text: sb.String(), BBox: box})
				sb.Reset()
			}
			if sb.Len() == 0 {
				box = g.box
			} else {
				box = box.Union(g.box)
			}
			sb.WriteString(g.text)
		}
		if sb.Len() > 0 {
			words = append(words, model.Word{Text: sb.String(), BBox: box})
		}
	}
	return words
}

// toRulings turns drawn rectangles into line segments in top-left space.
// Thin rectangles become a single ruling; others contribute their edges.
func toRulings(rects []pdf.Rect, box pageBox) []model.Ruling {
	var rulings []model.Ruling
	for _, rc := range rects {
		x0 := math.Min(rc.Min.X, rc.Max.X) - box.x0
		x1 := math.Max(rc.Min.X, rc.Max.X) - box.x0
		y0 := box.y1 - math.Max(rc.Min.Y, rc.Max.Y)
		y1 := box.y1 - math.Min(rc.Min.Y, rc.Max.Y)

		switch {
		case y1-y0 <= thinRect && x1-x0 <= thinRect:
			continue
		case y1-y0 <= thinRect:
			y := (y0 + y1) / 2
			rulings = append(rulings, hRuling(y, x0, x1))
		case x1-x0 <= thinRect:
			x := (x0 + x1) / 2
			rulings = append(rulings, vRuling(x, y0, y1))
		default:
			rulings = append(rulings,
				hRuling(y0, x0, x1),
				hRuling(y1, x0, x1),
				vRuling(x0, y0, y1),
				vRuling(x1, y0, y1),
			)
		}
	}
	return rulings
}

func hRuling(y, x0, x1 float64) model.Ruling {
	return model.Ruling{Start: model.Point{X: x0, Y: y}, End: model.Point{X: x1, Y: y}}
}

func vRuling(x, y0, y1 float64) model.Ruling {
	return model.Ruling{Start: model.Point{X: x, Y: y0}, End: model.Point{X: x, Y: y1}}
}
