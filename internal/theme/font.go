package theme

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// Font is a loaded font with the metrics faces use to measure text.
type Font struct {
	Family     string
	Size       float64 // pixels
	Weight     int
	CharWidth  float64
	LineHeight float64
}

// Measure returns the width of text set in f.
func (f *Font) Measure(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * f.CharWidth
}

// FontLoader loads the font a descriptor names.
type FontLoader interface {
	LoadFont(ctx context.Context, d FontDescriptor) (*Font, error)
}

// MetricsLoader derives approximate fixed-width metrics from a descriptor
// without touching any font file.
type MetricsLoader struct{}

func (MetricsLoader) LoadFont(ctx context.Context, d FontDescriptor) (*Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size, err := ParseFontSize(d.Size)
	if err != nil {
		return nil, err
	}
	weight := d.Weight
	if weight == 0 {
		weight = 400
	}
	width := size * 0.6
	if weight >= 600 {
		width = size * 0.65
	}
	return &Font{
		Family:     d.Family,
		Size:       size,
		Weight:     weight,
		CharWidth:  width,
		LineHeight: size * 1.2,
	}, nil
}

// ParseFontSize converts "12pt", "16px" or "16" to pixels.
func ParseFontSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "pt"):
		s, scale = strings.TrimSuffix(s, "pt"), 4.0/3.0
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid font size %q", s)
	}
	return v * scale, nil
}

// FontStore caches loaded fonts by descriptor. It is safe for concurrent use.
type FontStore struct {
	loader FontLoader
	mu     sync.Mutex
	fonts  map[string]*Font
	def    *Font
}

// NewFontStore returns a store that loads through loader and falls back to
// def for fonts that were never loaded.
func NewFontStore(loader FontLoader, def *Font) *FontStore {
	return &FontStore{loader: loader, fonts: make(map[string]*Font), def: def}
}

// DefaultFontStore returns a metrics-only store whose default font is a 12px
// sans-serif.
func DefaultFontStore() *FontStore {
	def, _ := MetricsLoader{}.LoadFont(context.Background(), FontDescriptor{Family: "sans-serif", Size: "12px"})
	return NewFontStore(MetricsLoader{}, def)
}

// LoadFont loads d if it is not loaded yet.
func (s *FontStore) LoadFont(ctx context.Context, d FontDescriptor) error {
	s.mu.Lock()
	_, ok := s.fonts[d.key()]
	s.mu.Unlock()
	if ok {
		return nil
	}
	f, err := s.loader.LoadFont(ctx, d)
	if err != nil {
		return fmt.Errorf("loading font %s %s: %w", d.Family, d.Size, err)
	}
	s.mu.Lock()
	s.fonts[d.key()] = f
	s.mu.Unlock()
	return nil
}

// Font returns the loaded font for d, or the store default.
func (s *FontStore) Font(d FontDescriptor) *Font {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[d.key()]; ok {
		return f
	}
	return s.def
}

// Loaded reports whether d has been loaded.
func (s *FontStore) Loaded(d FontDescriptor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fonts[d.key()]
	return ok
}
