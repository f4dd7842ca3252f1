// Package schema describes the shape of diagram object properties.
//
// A schema is a tree of descriptors. Atomic descriptors (int, float, string,
// date, enum) describe single values; list, dictionary and tuple descriptors
// describe collections whose form fully determines the shape of any property
// instantiated from them. Schemas are authored in YAML, parsed once, and
// validated at load time so editing never encounters a malformed descriptor.
package schema

import (
	"fmt"
	"time"
)

// Kind identifies a descriptor's type.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Date
	Enum
	List
	Dictionary
	Tuple
)

var kindNames = [...]string{
	Int:        "int",
	Float:      "float",
	String:     "string",
	Date:       "date",
	Enum:       "enum",
	List:       "list",
	Dictionary: "dictionary",
	Tuple:      "tuple",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsAtomic reports whether k describes a single value.
func (k Kind) IsAtomic() bool {
	return k <= Enum
}

// ParseKind resolves a kind from its YAML name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Descriptor is one node of a schema. The set of implementations is closed:
// *IntDescriptor, *FloatDescriptor, *StringDescriptor, *DateDescriptor,
// *EnumDescriptor, *ListDescriptor, *DictionaryDescriptor and *TupleDescriptor.
type Descriptor interface {
	Kind() Kind
	Info() *Base
	descriptor()
}

// Base holds the attributes shared by every descriptor.
type Base struct {
	// Name is the human-readable name.
	Name string
	// Editable reports whether the property appears in, and is editable
	// within, the interface.
	Editable bool
	// Representative marks the property used to summarize its parent
	// dictionary or root (e.g. the "name" field of a user account).
	Representative bool
	// Metadata is free-form auxiliary data.
	Metadata map[string]any
}

// Info returns the shared descriptor attributes.
func (b *Base) Info() *Base { return b }

// IntDescriptor describes an integer property.
type IntDescriptor struct {
	Base
	Default *int64
	Min     *int64
	Max     *int64
}

// FloatDescriptor describes a floating point property.
type FloatDescriptor struct {
	Base
	Default *float64
	Min     *float64
	Max     *float64
}

// StringDescriptor describes a string property with optional suggestions.
type StringDescriptor struct {
	Base
	Default *string
	Options *ListDescriptor
}

// DateDescriptor describes a date property.
type DateDescriptor struct {
	Base
	Default *time.Time
}

// EnumDescriptor describes a property restricted to the ids of its options.
type EnumDescriptor struct {
	Base
	Default *string
	Options *ListDescriptor
}

// ListDescriptor describes a homogeneous, ordered collection.
type ListDescriptor struct {
	Base
	Form    Descriptor
	Default []DefaultEntry
}

// DefaultEntry is one (id, value) pair of a list default.
type DefaultEntry struct {
	ID    string
	Value any
}

// DictionaryDescriptor describes a collection of named, heterogeneous fields.
type DictionaryDescriptor struct {
	Base
	Form Fields
}

// TupleDescriptor describes a fixed set of named atomic fields.
type TupleDescriptor struct {
	Base
	Form Fields
	// ValidValueCombinations limits the options of one field based on the
	// values of the others.
	ValidValueCombinations []Combination
}

// Combination maps tuple field names to one permitted value each.
type Combination map[string]string

func (*IntDescriptor) Kind() Kind        { return Int }
func (*FloatDescriptor) Kind() Kind      { return Float }
func (*StringDescriptor) Kind() Kind     { return String }
func (*DateDescriptor) Kind() Kind       { return Date }
func (*EnumDescriptor) Kind() Kind       { return Enum }
func (*ListDescriptor) Kind() Kind       { return List }
func (*DictionaryDescriptor) Kind() Kind { return Dictionary }
func (*TupleDescriptor) Kind() Kind      { return Tuple }

func (*IntDescriptor) descriptor()        {}
func (*FloatDescriptor) descriptor()      {}
func (*StringDescriptor) descriptor()     {}
func (*DateDescriptor) descriptor()       {}
func (*EnumDescriptor) descriptor()       {}
func (*ListDescriptor) descriptor()       {}
func (*DictionaryDescriptor) descriptor() {}
func (*TupleDescriptor) descriptor()      {}

// Field is a named descriptor within a dictionary, tuple or root form.
type Field struct {
	Name       string
	Descriptor Descriptor
}

// Fields is an ordered form. Declaration order is preserved.
type Fields []Field

// Lookup returns the descriptor of the named field.
func (f Fields) Lookup(name string) (Descriptor, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Descriptor, true
		}
	}
	return nil, false
}

// Names returns the field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Root is a RootPropertyDescriptor: the top-level form of a diagram object.
type Root struct {
	Fields
}

// OptionIDs returns the ids of a list's default entries, which enumerate the
// permitted values of an enum and the suggestions of a string.
func (l *ListDescriptor) OptionIDs() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, len(l.Default))
	for i, e := range l.Default {
		ids[i] = e.ID
	}
	return ids
}
