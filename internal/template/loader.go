package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sec-js/attack-flow/internal/schema"
)

// LoadTemplates reads all YAML files from the given directory.
func LoadTemplates(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory: %w", err)
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		parsed, err := Parse(data, name)
		if err != nil {
			return nil, err
		}
		templates = append(templates, parsed...)
	}

	// Sort by id for deterministic output
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].ID < templates[j].ID
	})

	return templates, nil
}

// Parse decodes and validates the templates of one source file.
func Parse(data []byte, filename string) ([]Template, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	for i := range f.Templates {
		if err := validateTemplate(&f.Templates[i], filename); err != nil {
			return nil, err
		}
	}
	return f.Templates, nil
}

func validateTemplate(t *Template, filename string) error {
	if t.ID == "" {
		return fmt.Errorf("%s: missing required field 'id'", filename)
	}
	switch t.Type {
	case TypeBlock, TypeAnchor, TypeGroup:
	case "":
		return fmt.Errorf("%s: %s: missing required field 'type'", filename, t.ID)
	default:
		return fmt.Errorf("%s: %s: unknown type %q", filename, t.ID, t.Type)
	}
	if t.Type != TypeBlock && len(t.Anchors) > 0 {
		return fmt.Errorf("%s: %s: only blocks have anchors", filename, t.ID)
	}
	positions := make(map[string]bool, len(t.Anchors))
	for i, a := range t.Anchors {
		if a.Position == "" || a.Template == "" {
			return fmt.Errorf("%s: %s: anchor[%d]: missing position or template", filename, t.ID, i)
		}
		if positions[a.Position] {
			return fmt.Errorf("%s: %s: anchor position %q used twice", filename, t.ID, a.Position)
		}
		positions[a.Position] = true
	}
	if err := schema.ValidateSimpleRoot(t.Properties); err != nil {
		return fmt.Errorf("%s: %s: properties: %w", filename, t.ID, err)
	}
	return nil
}

// Registry indexes templates by id.
type Registry struct {
	templates map[string]*Template
	order     []string
}

// NewRegistry indexes templates and checks that every anchor slot refers to
// an anchor template.
func NewRegistry(templates []Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for i := range templates {
		t := &templates[i]
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("template %q defined more than once", t.ID)
		}
		r.templates[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	for _, t := range r.templates {
		for _, a := range t.Anchors {
			target, ok := r.templates[a.Template]
			if !ok {
				return nil, fmt.Errorf("template %q: anchor %s: unknown template %q", t.ID, a.Position, a.Template)
			}
			if target.Type != TypeAnchor {
				return nil, fmt.Errorf("template %q: anchor %s: template %q is a %s", t.ID, a.Position, a.Template, target.Type)
			}
		}
	}
	return r, nil
}

// Lookup returns the template with the given id.
func (r *Registry) Lookup(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns the template ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
