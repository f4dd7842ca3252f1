// Package template reads diagram object template files and compiles them
// into a validated registry the model factory instantiates objects from.
package template

import "github.com/sec-js/attack-flow/internal/schema"

// ObjectType is the kind of diagram object a template produces.
type ObjectType string

const (
	TypeBlock  ObjectType = "block"
	TypeAnchor ObjectType = "anchor"
	TypeGroup  ObjectType = "group"
)

// Template is the YAML source format of one diagram object template.
type Template struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Type       ObjectType   `yaml:"type"`
	Properties schema.Root  `yaml:"properties"`
	Anchors    []AnchorSlot `yaml:"anchors"`
}

// AnchorSlot places an anchor template at a named position on a block.
type AnchorSlot struct {
	Position string `yaml:"position"`
	Template string `yaml:"template"`
}

// File is a template source file; it may hold several templates.
type File struct {
	Templates []Template `yaml:"templates"`
}
