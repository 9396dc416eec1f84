package tables

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tsawler/tabmark/model"
)

// ErrUnknownDetector is returned by New for an unregistered detector name.
var ErrUnknownDetector = errors.New("unknown table detector")

// Detector is the interface for table detection algorithms
type Detector interface {
	// Detect finds tables on a page, in detection order
	Detect(page *model.PageGeometry) ([]model.RawTable, error)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Minimum confidence threshold (0-1)
	MinConfidence float64

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64

	// Maximum deviation for a ruling to count as horizontal or vertical (points)
	RulingTolerance float64

	// Minimum ruling length to consider (points)
	MinRulingLength float64

	// Minimum whitespace gutter between text columns (points)
	MinColumnGap float64

	// Vertical gap that separates two text tables (points)
	MaxRowGap float64

	// Maximum mean words per occupied cell before a text grid is rejected
	MaxCellWords float64

	// Whether to detect spanned cells in ruled tables
	DetectMergedCells bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		AlignmentTolerance: 3.0,
		RulingTolerance:    1.0,
		MinRulingLength:    10.0,
		MinColumnGap:       8.0,
		MaxRowGap:          20.0,
		MaxCellWords:       8.0,
		DetectMergedCells:  true,
	}
}

// Validate reports configuration values no detector can work with.
func (c Config) Validate() error {
	if c.MinRows < 1 || c.MinCols < 1 {
		return fmt.Errorf("minimum table size must be at least 1x1, got %dx%d", c.MinRows, c.MinCols)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("minimum confidence must be within [0, 1], got %v", c.MinConfidence)
	}
	if c.AlignmentTolerance < 0 || c.RulingTolerance < 0 {
		return fmt.Errorf("tolerances must not be negative")
	}
	return nil
}

// Factory creates a detector
type Factory func() Detector

// DetectorRegistry holds registered detector factories
type DetectorRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new detector registry
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		factories: make(map[string]Factory),
	}
}

// Register registers a detector factory under name
func (r *DetectorRegistry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New creates a configured detector by name
func (r *DetectorRegistry) New(name string, config Config) (Detector, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
	}

	d := factory()
	if err := d.Configure(config); err != nil {
		return nil, fmt.Errorf("configure %s detector: %w", name, err)
	}
	return d, nil
}

// List returns all registered detector names, sorted
func (r *DetectorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector factory globally
func RegisterDetector(name string, factory Factory) {
	globalRegistry.Register(name, factory)
}

// New creates a configured detector from the global registry
func New(name string, config Config) (Detector, error) {
	return globalRegistry.New(name, config)
}

// ListDetectors returns all registered detector names
func ListDetectors() []string {
	return globalRegistry.List()
}

func init() {
	RegisterDetector("lines", func() Detector { return NewLineDetector() })
	RegisterDetector("text", func() Detector { return NewTextDetector() })
}
