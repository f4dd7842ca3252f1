// Package model holds diagram objects: blocks, the anchors they expose and
// the groups that contain them. Every object owns a property tree instantiated
// from its template's schema.
package model

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/sec-js/attack-flow/internal/property"
)

var (
	ErrAnchorExists   = errors.New("anchor position already occupied")
	ErrAnchorAttached = errors.New("anchor already belongs to a block")
	ErrObjectExists   = errors.New("object already in group")
)

// Attributes is an opaque bit set carried by every diagram object. The view
// layer defines the individual bits.
type Attributes uint32

// DiagramObject is implemented by *Block, *Anchor and *Group.
type DiagramObject interface {
	ID() string
	Instance() string
	Attributes() Attributes
	Properties() *property.RootProperty
}

// Object is the state shared by all diagram objects.
type Object struct {
	id         string
	instance   string
	attributes Attributes
	properties *property.RootProperty
}

func newObject(id, instance string, attrs Attributes, props *property.RootProperty) Object {
	if props == nil {
		panic(fmt.Sprintf("model: object %s/%s created without properties", id, instance))
	}
	if instance == "" {
		instance = NewInstanceID()
	}
	return Object{id: id, instance: instance, attributes: attrs, properties: props}
}

// ID returns the template id the object was created from.
func (o *Object) ID() string { return o.id }

// Instance returns the object's unique instance id.
func (o *Object) Instance() string { return o.instance }

func (o *Object) Attributes() Attributes { return o.attributes }

func (o *Object) SetAttributes(a Attributes) { o.attributes = a }

func (o *Object) Properties() *property.RootProperty { return o.properties }

// NewInstanceID returns a random instance id.
func NewInstanceID() string {
	return uuid.NewString()
}

// Anchor is a connection point on a block.
type Anchor struct {
	Object
	position string
	parent   *Block
}

// NewAnchor creates a detached anchor. An empty instance draws a random one.
func NewAnchor(id, instance string, attrs Attributes, props *property.RootProperty) *Anchor {
	return &Anchor{Object: newObject(id, instance, attrs, props)}
}

// Position returns the anchor's position on its block, empty while detached.
func (a *Anchor) Position() string { return a.position }

// Parent returns the block the anchor is attached to.
func (a *Anchor) Parent() *Block { return a.parent }

// IsolatedClone copies the anchor under a new instance id. The copy is
// detached and shares no state with a.
func (a *Anchor) IsolatedClone(instance string) *Anchor {
	return NewAnchor(a.id, instance, a.attributes, a.properties.CloneRoot())
}

// Block is a diagram node with named anchor positions.
type Block struct {
	Object
	positions []string
	anchors   map[string]*Anchor
}

// NewBlock creates a block without anchors. An empty instance draws a random
// one.
func NewBlock(id, instance string, attrs Attributes, props *property.RootProperty) *Block {
	return &Block{
		Object:  newObject(id, instance, attrs, props),
		anchors: make(map[string]*Anchor),
	}
}

// Anchors iterates the block's anchors by position, in the order they were
// added.
func (b *Block) Anchors() iter.Seq2[string, *Anchor] {
	return func(yield func(string, *Anchor) bool) {
		for _, pos := range b.positions {
			if !yield(pos, b.anchors[pos]) {
				return
			}
		}
	}
}

// Anchor returns the anchor at position.
func (b *Block) Anchor(position string) (*Anchor, bool) {
	a, ok := b.anchors[position]
	return a, ok
}

// Positions returns the occupied anchor positions in order.
func (b *Block) Positions() []string {
	return append([]string(nil), b.positions...)
}

// AddAnchor attaches a to the block at position.
func (b *Block) AddAnchor(position string, a *Anchor) error {
	if _, ok := b.anchors[position]; ok {
		return fmt.Errorf("%w: %s", ErrAnchorExists, position)
	}
	if a.parent != nil {
		return fmt.Errorf("%w: %s", ErrAnchorAttached, a.instance)
	}
	a.parent = b
	a.position = position
	b.anchors[position] = a
	b.positions = append(b.positions, position)
	return nil
}

// RemoveAnchor detaches and returns the anchor at position. Removing an
// empty position is a no-op.
func (b *Block) RemoveAnchor(position string) *Anchor {
	a, ok := b.anchors[position]
	if !ok {
		return nil
	}
	delete(b.anchors, position)
	for i, p := range b.positions {
		if p == position {
			b.positions = append(b.positions[:i], b.positions[i+1:]...)
			break
		}
	}
	a.parent = nil
	a.position = ""
	return a
}

// IsolatedClone copies the block without its anchors.
func (b *Block) IsolatedClone(instance string) *Block {
	return NewBlock(b.id, instance, b.attributes, b.properties.CloneRoot())
}

// Clone copies the block and all of its anchors. When instanceMap is not nil
// it receives an original to clone instance id entry for every copied object.
func (b *Block) Clone(instance string, instanceMap map[string]string) *Block {
	c := b.IsolatedClone(instance)
	for pos, a := range b.Anchors() {
		ac := a.IsolatedClone("")
		// Positions are unique in b and c starts empty.
		_ = c.AddAnchor(pos, ac)
		if instanceMap != nil {
			instanceMap[a.instance] = ac.instance
		}
	}
	if instanceMap != nil {
		instanceMap[b.instance] = c.instance
	}
	return c
}

// Group is a container of diagram objects, such as the diagram canvas.
type Group struct {
	Object
	objects []DiagramObject
}

// NewGroup creates an empty group.
func NewGroup(id, instance string, attrs Attributes, props *property.RootProperty) *Group {
	return &Group{Object: newObject(id, instance, attrs, props)}
}

// Objects returns the group's children in insertion order.
func (g *Group) Objects() []DiagramObject {
	return append([]DiagramObject(nil), g.objects...)
}

// AddObject appends o to the group.
func (g *Group) AddObject(o DiagramObject) error {
	if g.indexOf(o.Instance()) >= 0 {
		return fmt.Errorf("%w: %s", ErrObjectExists, o.Instance())
	}
	g.objects = append(g.objects, o)
	return nil
}

// RemoveObject removes the object with the given instance id. Unknown ids are
// ignored.
func (g *Group) RemoveObject(instance string) DiagramObject {
	i := g.indexOf(instance)
	if i < 0 {
		return nil
	}
	o := g.objects[i]
	g.objects = append(g.objects[:i], g.objects[i+1:]...)
	return o
}

// ReplaceObject swaps o in for the object with the same instance id and
// reports whether there was one.
func (g *Group) ReplaceObject(o DiagramObject) bool {
	i := g.indexOf(o.Instance())
	if i < 0 {
		return false
	}
	g.objects[i] = o
	return true
}

// IsolatedClone copies the group without its objects.
func (g *Group) IsolatedClone(instance string) *Group {
	return NewGroup(g.id, instance, g.attributes, g.properties.CloneRoot())
}

func (g *Group) indexOf(instance string) int {
	for i, o := range g.objects {
		if o.Instance() == instance {
			return i
		}
	}
	return -1
}
