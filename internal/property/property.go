// Package property implements the runtime value tree instantiated from a
// schema. Collections own their children; every child keeps a non-owning
// reference to its parent which is used only to propagate change
// notifications up to the root, where subscribers (views) are invoked.
package property

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/sec-js/attack-flow/internal/schema"
)

var (
	// ErrDuplicateID is returned when adding a property under an id already in use.
	ErrDuplicateID = errors.New("property id already assigned")
	// ErrIDSpaceExhausted is returned when no unused id could be generated.
	ErrIDSpaceExhausted = errors.New("could not generate an unused property id")
	// ErrIndexOutOfRange is returned when inserting before the start or beyond
	// the end of a collection.
	ErrIndexOutOfRange = errors.New("insertion index out of range")
	// ErrEmptyID is returned when a property is added under an explicit empty id.
	ErrEmptyID = errors.New("property id is empty")
	// ErrAttached is returned when adding a property that already has a parent.
	ErrAttached = errors.New("property already belongs to a collection")
)

// TypeMismatchError reports a child whose kind differs from the expected one.
type TypeMismatchError struct {
	ID   string
	Want schema.Kind
	Got  schema.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property '%s' is not a '%s' (got '%s')", e.ID, e.Want, e.Got)
}

// ValueError reports data that disagrees with the declared schema.
type ValueError struct {
	Path string
	Err  error
}

func (e *ValueError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid value: %v", e.Err)
	}
	return fmt.Sprintf("invalid value at %s: %v", e.Path, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Property is one node of a property tree.
type Property interface {
	// Kind returns the kind of the property's descriptor.
	Kind() schema.Kind
	// Descriptor returns the descriptor the property was instantiated from.
	Descriptor() schema.Descriptor
	// ToJSON returns the property's unordered JSON value.
	ToJSON() any
	// HashValue returns the property's structural hash.
	HashValue() uint64
	// Parent returns the collection holding the property, if any.
	Parent() Property
	// Clone returns a detached deep copy.
	Clone() Property
	// String returns a human-readable rendition of the value.
	String() string

	base() *node
}

// node links a property to its parent.
type node struct {
	parent   Property
	onChange func()
}

// Parent returns the collection holding the property, if any.
func (n *node) Parent() Property { return n.parent }

func (n *node) base() *node { return n }

// changed walks from n to the top of the tree running every change hook on
// the way. Only roots install hooks.
func (n *node) changed() {
	for p := n; p != nil; {
		if p.onChange != nil {
			p.onChange()
		}
		if p.parent == nil {
			return
		}
		p = p.parent.base()
	}
}

// Entry is one (id, value) pair of an ordered JSON value. It marshals as a
// two-element array.
type Entry struct {
	ID    string
	Value any
}

// MarshalJSON encodes the entry as [id, value].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Value})
}

// UnmarshalJSON decodes an [id, value] pair.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("entry must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	return json.Unmarshal(pair[1], &e.Value)
}

const nullHashText = "\x00null"

func computeHash(text string) uint64 {
	return xxhash.Sum64String(text)
}
