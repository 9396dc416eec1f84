package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tidwall/rtree"

	"github.com/tsawler/tabmark/model"
	"github.com/tsawler/tabmark/tables"
)

// DefaultOverlapThreshold is the share of a block's own area that must lie
// inside a table region for the block to belong to it.
const DefaultOverlapThreshold = 0.3

// Options configures a Reconstructor
type Options struct {
	// OverlapThreshold is the minimum intersection/area(block) ratio.
	OverlapThreshold float64
}

// DefaultOptions returns default reconstruction options
func DefaultOptions() Options {
	return Options{OverlapThreshold: DefaultOverlapThreshold}
}

// TableRegion is a serialized table and the page area it covers.
type TableRegion struct {
	BBox     model.BBox
	Markdown string
}

// TableRegions serializes raw tables, dropping those that render empty.
// Detection order is preserved.
func TableRegions(raw []model.RawTable) []TableRegion {
	var regions []TableRegion
	for _, t := range raw {
		md := tables.ToMarkdown(t.Rows)
		if md == "" {
			continue
		}
		regions = append(regions, TableRegion{BBox: t.BBox, Markdown: md})
	}
	return regions
}

// Fragment is one unit of page output and its vertical sort key.
type Fragment struct {
	Key  float64
	Text string
}

// Reconstructor rebuilds page Markdown. It holds no per-page state and is
// safe for concurrent use.
type Reconstructor struct {
	opts Options
}

// NewReconstructor creates a reconstructor
func NewReconstructor(opts Options) *Reconstructor {
	if opts.OverlapThreshold <= 0 {
		opts.OverlapThreshold = DefaultOverlapThreshold
	}
	return &Reconstructor{opts: opts}
}

// Page returns the Markdown of one page.
func (r *Reconstructor) Page(blocks []model.TextBlock, regions []TableRegion) string {
	return Join(r.Fragments(blocks, regions))
}

// Fragments returns the page's fragments sorted by vertical key.
func (r *Reconstructor) Fragments(blocks []model.TextBlock, regions []TableRegion) []Fragment {
	body := BodyFontSize(blocks)
	index := newRegionIndex(regions)
	emitted := make([]bool, len(regions))

	var frags []Fragment
	for _, b := range blocks {
		if t := index.firstMatch(b.BBox, r.opts.OverlapThreshold); t >= 0 {
			if !emitted[t] {
				emitted[t] = true
				frags = append(frags, Fragment{Key: b.BBox.Y0, Text: "\n" + regions[t].Markdown + "\n"})
			}
			continue
		}

		var lines []string
		for _, l := range b.Lines {
			if s, ok := RenderLine(l, body); ok {
				lines = append(lines, s)
			}
		}
		if len(lines) > 0 {
			frags = append(frags, Fragment{Key: b.BBox.MidY(), Text: strings.Join(lines, "\n")})
		}
	}

	for i, t := range regions {
		if !emitted[i] {
			frags = append(frags, Fragment{Key: math.Inf(1), Text: "\n" + t.Markdown + "\n"})
		}
	}

	sort.SliceStable(frags, func(i, j int) bool { return frags[i].Key < frags[j].Key })
	return frags
}

// Join concatenates fragment texts separated by a blank line.
func Join(frags []Fragment) string {
	texts := make([]string, len(frags))
	for i, f := range frags {
		texts[i] = f.Text
	}
	return strings.Join(texts, "\n\n")
}

// regionIndex answers "which table does this box belong to" with an
// R-tree over table bounding boxes.
type regionIndex struct {
	regions []TableRegion
	tree    rtree.RTreeG[int]
}

func newRegionIndex(regions []TableRegion) *regionIndex {
	idx := &regionIndex{regions: regions}
	for i, t := range regions {
		idx.tree.Insert(
			[2]float64{t.BBox.X0, t.BBox.Y0},
			[2]float64{t.BBox.X1, t.BBox.Y1},
			i,
		)
	}
	return idx
}

// firstMatch returns the lowest detection index among regions that box
// belongs to, or -1.
func (idx *regionIndex) firstMatch(box model.BBox, threshold float64) int {
	if len(idx.regions) == 0 {
		return -1
	}
	match := -1
	idx.tree.Search(
		[2]float64{box.X0, box.Y0},
		[2]float64{box.X1, box.Y1},
		func(_, _ [2]float64, i int) bool {
			if (match < 0 || i < match) && box.BelongsTo(idx.regions[i].BBox, threshold) {
				match = i
			}
			return true
		},
	)
	return match
}
