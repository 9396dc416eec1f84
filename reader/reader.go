package reader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/tabmark/format"
	"github.com/tsawler/tabmark/logging"
	"github.com/tsawler/tabmark/model"
	"github.com/tsawler/tabmark/tables"
)

var logger = logging.GetLogger("reader")

// Document access errors. Errors returned by Open and New wrap exactly one
// of these.
var (
	ErrNotFound         = errors.New("file not found")
	ErrOpen             = errors.New("cannot open PDF")
	ErrPasswordRequired = errors.New("PDF is encrypted and requires a password")
	ErrWrongPassword    = errors.New("incorrect PDF password")
)

// ErrTablesUnavailable is returned by Tables when no detector is configured.
var ErrTablesUnavailable = errors.New("table detection unavailable")

// Reader represents an opened PDF document
type Reader struct {
	file     *os.File
	pdf      *pdf.Reader
	detector tables.Detector

	mu          sync.Mutex
	cached      *pageContent
	cachedIndex int
}

// pageContent is the decoded form of one page.
type pageContent struct {
	blocks   []model.TextBlock
	geometry *model.PageGeometry
}

// Open opens a PDF file. password may be empty for unencrypted documents.
func Open(filename, password string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, filename)
	}

	r, err := New(file, info.Size(), password)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file

	logger.Debug("opened document", "file", filename, "pages", r.PageCount())
	return r, nil
}

// New creates a Reader over size bytes of ra.
func New(ra io.ReaderAt, size int64, password string) (r *Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("%w: %v", ErrOpen, rec)
		}
	}()

	kind, err := format.DetectFromReader(ra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if kind != format.PDF {
		return nil, fmt.Errorf("%w: input is not a PDF (detected %s)", ErrOpen, kind)
	}

	var pr *pdf.Reader
	if password == "" {
		pr, err = pdf.NewReader(ra, size)
	} else {
		tried := false
		pr, err = pdf.NewReaderEncrypted(ra, size, func() string {
			if tried {
				return ""
			}
			tried = true
			return password
		})
	}
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			if password == "" {
				return nil, ErrPasswordRequired
			}
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	return &Reader{
		pdf:         pr,
		detector:    tables.NewLineDetector(),
		cachedIndex: -1,
	}, nil
}

// Close closes the underlying file when the Reader opened it
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// PageCount returns the number of pages
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// SetTableDetector replaces the detector used by Tables. A nil detector
// makes Tables fail with ErrTablesUnavailable.
func (r *Reader) SetTableDetector(d tables.Detector) {
	r.detector = d
}

// TableDetector returns the detector used by Tables.
func (r *Reader) TableDetector() tables.Detector {
	return r.detector
}

// page returns the page at zero-based index i.
func (r *Reader) page(i int) (pdf.Page, error) {
	if i < 0 || i >= r.pdf.NumPage() {
		return pdf.Page{}, fmt.Errorf("page index %d out of range [0, %d)", i, r.pdf.NumPage())
	}
	p := r.pdf.Page(i + 1)
	if p.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("page %d: missing page object", i+1)
	}
	return p, nil
}

// PlainText returns the page text without layout.
func (r *Reader) PlainText(i int) (string, error) {
	p, err := r.page(i)
	if err != nil {
		return "", err
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", i+1, err)
	}
	return text, nil
}

// TextBlocks returns the styled text blocks of a page in content order.
func (r *Reader) TextBlocks(i int) ([]model.TextBlock, error) {
	pc, err := r.content(i)
	if err != nil {
		return nil, err
	}
	return pc.blocks, nil
}

// Geometry returns the words and rulings of a page.
func (r *Reader) Geometry(i int) (*model.PageGeometry, error) {
	pc, err := r.content(i)
	if err != nil {
		return nil, err
	}
	return pc.geometry, nil
}

// Tables runs the configured detector on a page.
func (r *Reader) Tables(i int) ([]model.RawTable, error) {
	if r.detector == nil {
		return nil, ErrTablesUnavailable
	}
	geom, err := r.Geometry(i)
	if err != nil {
		return nil, err
	}
	found, err := r.detector.Detect(geom)
	if err != nil {
		return nil, fmt.Errorf("page %d: %s detector: %w", i+1, r.detector.Name(), err)
	}
	return found, nil
}

// content decodes a page once; the most recent page is cached because
// TextBlocks and Tables are usually requested back to back.
func (r *Reader) content(i int) (pc *pageContent, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.cachedIndex == i {
		return r.cached, nil
	}

	p, err := r.page(i)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			pc, err = nil, fmt.Errorf("page %d: malformed content: %v", i+1, rec)
		}
	}()

	box := mediaBox(p)
	content := p.Content()
	glyphs := toGlyphs(content.Text, box, fontStyles(p))
	lines := groupLines(glyphs)

	pc = &pageContent{
		blocks: groupBlocks(lines),
		geometry: &model.PageGeometry{
			Width:   box.width(),
			Height:  box.height(),
			Words:   buildWords(lines),
			Rulings: toRulings(content.Rect, box),
		},
	}
	logger.Debug("decoded page", "page", i+1, "glyphs", len(glyphs), "blocks", len(pc.blocks), "rulings", len(pc.geometry.Rulings))

	r.cached, r.cachedIndex = pc, i
	return pc, nil
}
