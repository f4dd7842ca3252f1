package theme

import (
	"context"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Theme is a resolved theme: every design is ready to build faces from.
type Theme struct {
	ID      string
	Name    string
	Grid    [2]float64
	Scale   float64
	Designs map[string]*Design
}

// Design returns the design for a template id.
func (t *Theme) Design(templateID string) (*Design, bool) {
	d, ok := t.Designs[templateID]
	return d, ok
}

type Design struct {
	Type  FaceType
	Style Style
}

// Style is a StyleConfig with fonts and field filters resolved.
type Style struct {
	MaxWidth          float64
	HorizontalPadding float64
	VerticalPadding   float64
	FieldSpacing      float64
	Radius            float64
	FillColor         string
	StrokeColor       string
	HeadFont          *Font
	FieldNameFont     *Font
	FieldValueFont    *Font
	Fields            Enumeration
}

// Enumeration filters keys. A nil Include admits every key not excluded.
type Enumeration struct {
	Include map[string]struct{}
	Exclude map[string]struct{}
}

// Allows reports whether key passes the filter.
func (e Enumeration) Allows(key string) bool {
	if _, ok := e.Exclude[key]; ok {
		return false
	}
	if e.Include == nil {
		return true
	}
	_, ok := e.Include[key]
	return ok
}

func newEnumeration(d *EnumerationDescriptor) Enumeration {
	var e Enumeration
	if d == nil {
		return e
	}
	if d.Include != nil {
		e.Include = toSet(d.Include)
	}
	if d.Exclude != nil {
		e.Exclude = toSet(d.Exclude)
	}
	return e
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Load loads every font cfg references into store, then resolves the theme.
// Fonts load concurrently; the first failure cancels the rest.
func Load(ctx context.Context, cfg *Config, store *FontStore) (*Theme, error) {
	descriptors := make(map[string]FontDescriptor)
	for _, d := range cfg.Designs {
		for _, f := range d.Style.fonts() {
			descriptors[f.key()] = *f
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range slices.Sorted(maps.Keys(descriptors)) {
		d := descriptors[key]
		g.Go(func() error {
			return store.LoadFont(ctx, d)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return UnsafeLoad(cfg, store), nil
}

// UnsafeLoad resolves the theme against the fonts already in store. Fonts
// that were never loaded resolve to the store default.
func UnsafeLoad(cfg *Config, store *FontStore) *Theme {
	t := &Theme{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Grid:    cfg.Grid,
		Scale:   cfg.Scale,
		Designs: make(map[string]*Design, len(cfg.Designs)),
	}
	for name, d := range cfg.Designs {
		s := d.Style
		t.Designs[name] = &Design{
			Type: d.Type,
			Style: Style{
				MaxWidth:          s.MaxWidth,
				HorizontalPadding: s.HorizontalPadding,
				VerticalPadding:   s.VerticalPadding,
				FieldSpacing:      s.FieldSpacing,
				Radius:            s.Radius,
				FillColor:         s.FillColor,
				StrokeColor:       s.StrokeColor,
				HeadFont:          resolveFont(store, s.HeadFont),
				FieldNameFont:     resolveFont(store, s.FieldNameFont),
				FieldValueFont:    resolveFont(store, s.FieldValueFont),
				Fields:            newEnumeration(s.Fields),
			},
		}
	}
	return t
}

func resolveFont(store *FontStore, d *FontDescriptor) *Font {
	if d == nil {
		return store.Font(FontDescriptor{})
	}
	return store.Font(*d)
}

func (s StyleConfig) fonts() []*FontDescriptor {
	var out []*FontDescriptor
	for _, f := range []*FontDescriptor{s.HeadFont, s.FieldNameFont, s.FieldValueFont} {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}
