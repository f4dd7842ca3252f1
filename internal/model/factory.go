package model

import (
	"errors"
	"fmt"

	"github.com/sec-js/attack-flow/internal/property"
	"github.com/sec-js/attack-flow/internal/template"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrWrongType       = errors.New("template has the wrong object type")
)

// Factory instantiates diagram objects from a template registry.
type Factory struct {
	templates *template.Registry
}

func NewFactory(templates *template.Registry) *Factory {
	return &Factory{templates: templates}
}

func (f *Factory) lookup(id string, want template.ObjectType) (*template.Template, error) {
	t, ok := f.templates.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	if t.Type != want {
		return nil, fmt.Errorf("%w: %q is a %s, not a %s", ErrWrongType, id, t.Type, want)
	}
	return t, nil
}

// NewBlock creates a block from a block template, filling its properties
// from data and attaching one anchor per anchor slot.
func (f *Factory) NewBlock(templateID string, data map[string]any) (*Block, error) {
	t, err := f.lookup(templateID, template.TypeBlock)
	if err != nil {
		return nil, err
	}
	props, err := property.NewRoot(t.Properties, data)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", templateID, err)
	}
	b := NewBlock(t.ID, "", 0, props)
	for _, slot := range t.Anchors {
		a, err := f.NewAnchor(slot.Template)
		if err != nil {
			return nil, fmt.Errorf("block %s: anchor %s: %w", templateID, slot.Position, err)
		}
		if err := b.AddAnchor(slot.Position, a); err != nil {
			return nil, fmt.Errorf("block %s: %w", templateID, err)
		}
	}
	return b, nil
}

// NewAnchor creates an anchor from an anchor template.
func (f *Factory) NewAnchor(templateID string) (*Anchor, error) {
	t, err := f.lookup(templateID, template.TypeAnchor)
	if err != nil {
		return nil, err
	}
	props, err := property.NewRoot(t.Properties, nil)
	if err != nil {
		return nil, fmt.Errorf("anchor %s: %w", templateID, err)
	}
	return NewAnchor(t.ID, "", 0, props), nil
}

// NewGroup creates an empty group from a group template.
func (f *Factory) NewGroup(templateID string, data map[string]any) (*Group, error) {
	t, err := f.lookup(templateID, template.TypeGroup)
	if err != nil {
		return nil, err
	}
	props, err := property.NewRoot(t.Properties, data)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", templateID, err)
	}
	return NewGroup(t.ID, "", 0, props), nil
}

// NewObject creates whatever kind of object templateID describes.
func (f *Factory) NewObject(templateID string, data map[string]any) (DiagramObject, error) {
	t, ok := f.templates.Lookup(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	switch t.Type {
	case template.TypeBlock:
		return f.NewBlock(templateID, data)
	case template.TypeAnchor:
		if len(data) > 0 {
			return nil, fmt.Errorf("anchor %s: anchors take no data", templateID)
		}
		return f.NewAnchor(templateID)
	case template.TypeGroup:
		return f.NewGroup(templateID, data)
	}
	return nil, fmt.Errorf("%w: %q has type %q", ErrWrongType, templateID, t.Type)
}
