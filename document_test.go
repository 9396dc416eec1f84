package tabmark

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/tabmark/model"
)

// fakePage is the content a fakeSource serves for one index.
type fakePage struct {
	plain     string
	blocks    []model.TextBlock
	tables    []model.RawTable
	tablesErr error
	blocksErr error
}

type fakeSource struct {
	pages map[int]fakePage

	mu          sync.Mutex
	blockCalls  []int
	tablesCalls []int
}

func (s *fakeSource) PlainText(i int) (string, error) {
	p, ok := s.pages[i]
	if !ok {
		return "", fmt.Errorf("no page %d", i)
	}
	return p.plain, nil
}

func (s *fakeSource) TextBlocks(i int) ([]model.TextBlock, error) {
	s.mu.Lock()
	s.blockCalls = append(s.blockCalls, i)
	s.mu.Unlock()
	p := s.pages[i]
	return p.blocks, p.blocksErr
}

func (s *fakeSource) Tables(i int) ([]model.RawTable, error) {
	s.mu.Lock()
	s.tablesCalls = append(s.tablesCalls, i)
	s.mu.Unlock()
	p := s.pages[i]
	return p.tables, p.tablesErr
}

func textBlock(text string, size, y0, y1 float64) model.TextBlock {
	return model.TextBlock{
		BBox: model.BBox{X0: 72, Y0: y0, X1: 300, Y1: y1},
		Lines: []model.TextLine{{
			Runs: []model.TextRun{{Text: text, FontName: "Helvetica", FontSize: size}},
		}},
	}
}

func textPage(text string) fakePage {
	return fakePage{plain: text, blocks: []model.TextBlock{textBlock(text, 10, 100, 112)}}
}

func TestConvertPagesScanned(t *testing.T) {
	src := &fakeSource{pages: map[int]fakePage{
		0: {plain: "  \n\t"},
		1: textPage("Body text"),
	}}

	doc, err := ConvertPages(context.Background(), []int{0, 1}, src, true)
	if err != nil {
		t.Fatalf("ConvertPages() failed: %v", err)
	}

	if !reflect.DeepEqual(doc.ScannedPages, []int{1}) {
		t.Errorf("ScannedPages = %v, want [1]", doc.ScannedPages)
	}
	if !reflect.DeepEqual(src.blockCalls, []int{1}) {
		t.Errorf("TextBlocks called for %v, want only [1]", src.blockCalls)
	}
	if !doc.Pages[0].Scanned || doc.Pages[1].Scanned {
		t.Errorf("Scanned flags = %v, %v", doc.Pages[0].Scanned, doc.Pages[1].Scanned)
	}

	want := "# Page 1\n\n" + ScannedNotice + "\n\n---\n\n# Page 2\n\nBody text"
	if got := doc.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
	if !strings.Contains(ScannedNotice, "ocrmypdf") {
		t.Error("scanned notice should suggest ocrmypdf")
	}
}

func TestConvertPagesWithTable(t *testing.T) {
	table := model.RawTable{
		BBox: model.BBox{X0: 60, Y0: 90, X1: 320, Y1: 150},
		Rows: model.RowsFromStrings([]string{"Name", "Age"}, []string{"Ann", "42"}),
	}
	empty := model.RawTable{BBox: model.BBox{X0: 0, Y0: 600, X1: 10, Y1: 610}}

	src := &fakeSource{pages: map[int]fakePage{
		0: {
			plain: "Title Name Age Ann 42 Body text",
			blocks: []model.TextBlock{
				textBlock("Title", 20, 50, 70),
				textBlock("Name Age", 10, 100, 112),
				textBlock("Ann 42", 10, 120, 132),
				textBlock("Body text", 10, 200, 212),
			},
			tables: []model.RawTable{table, empty},
		},
	}}

	doc, err := ConvertPages(context.Background(), []int{0}, src, true)
	if err != nil {
		t.Fatalf("ConvertPages() failed: %v", err)
	}

	want := "# Page 1\n\n# Title\n\n\n| Name | Age |\n| --- | --- |\n| Ann | 42 |\n\n\nBody text"
	if got := doc.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}

	got := doc.Tables()
	if len(got) != 1 {
		t.Fatalf("Tables() = %d, want 1 (empty table dropped)", len(got))
	}
	if got[0].Page != 1 || got[0].Index != 1 || len(got[0].Rows) != 2 {
		t.Errorf("Tables()[0] = %+v", got[0])
	}
}

func TestConvertPagesWithoutTables(t *testing.T) {
	src := &fakeSource{pages: map[int]fakePage{0: textPage("Body text")}}

	if _, err := ConvertPages(context.Background(), []int{0}, src, false); err != nil {
		t.Fatalf("ConvertPages() failed: %v", err)
	}
	if len(src.tablesCalls) != 0 {
		t.Errorf("Tables called %d times with tables disabled", len(src.tablesCalls))
	}
}

func TestConvertPagesTablesDegraded(t *testing.T) {
	p0 := textPage("First")
	p0.tablesErr = errors.New("engine missing")
	src := &fakeSource{pages: map[int]fakePage{
		0: p0,
		1: textPage("Second"),
	}}

	doc, err := ConvertPages(context.Background(), []int{0, 1}, src, true)
	if err != nil {
		t.Fatalf("ConvertPages() failed: %v", err)
	}

	if !reflect.DeepEqual(src.tablesCalls, []int{0}) {
		t.Errorf("Tables called for %v, want only [0]", src.tablesCalls)
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0].Page != 1 {
		t.Fatalf("Warnings = %+v, want one for page 1", doc.Warnings)
	}
	if !strings.Contains(doc.Warnings[0].Message, "engine missing") {
		t.Errorf("warning = %q", doc.Warnings[0].Message)
	}

	want := "# Page 1\n\nFirst\n\n---\n\n# Page 2\n\nSecond"
	if got := doc.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConvertPagesSourceError(t *testing.T) {
	p := textPage("x")
	p.blocksErr = errors.New("bad content stream")
	src := &fakeSource{pages: map[int]fakePage{0: textPage("ok"), 1: p}}

	_, err := ConvertPages(context.Background(), []int{0, 1}, src, false)
	if err == nil {
		t.Fatal("ConvertPages() should fail")
	}
	if !strings.Contains(err.Error(), "page 2") || !strings.Contains(err.Error(), "bad content stream") {
		t.Errorf("error = %v", err)
	}
}

func TestConvertPagesWorkersKeepOrder(t *testing.T) {
	const n = 40
	src := &fakeSource{pages: map[int]fakePage{}}
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		src.pages[i] = textPage(fmt.Sprintf("page body %d", i+1))
		indices[i] = i
	}

	opts := defaultConvertOptions()
	opts.workers = 8
	doc, err := convertPages(context.Background(), indices, src, false, opts)
	if err != nil {
		t.Fatalf("convertPages() failed: %v", err)
	}

	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Fatalf("Pages[%d].Number = %d", i, p.Number)
		}
		want := fmt.Sprintf("# Page %d\n\npage body %d", i+1, i+1)
		if p.Markdown != want {
			t.Errorf("Pages[%d].Markdown = %q, want %q", i, p.Markdown, want)
		}
	}
}

func TestConvertPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: map[int]fakePage{0: textPage("x")}}
	if _, err := ConvertPages(ctx, []int{0}, src, false); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestConvertPagesEmptySelection(t *testing.T) {
	doc, err := ConvertPages(context.Background(), nil, &fakeSource{}, true)
	if err != nil {
		t.Fatalf("ConvertPages() failed: %v", err)
	}
	if doc.Markdown() != "" || len(doc.ScannedPages) != 0 {
		t.Errorf("empty selection produced %q, %v", doc.Markdown(), doc.ScannedPages)
	}
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("FormatWarnings(nil) = %q", got)
	}
	got := FormatWarnings([]Warning{
		{Message: "file does not have a .pdf extension: a.txt"},
		{Page: 3, Message: "table detection disabled"},
	})
	want := "file does not have a .pdf extension: a.txt\npage 3: table detection disabled"
	if got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
}
