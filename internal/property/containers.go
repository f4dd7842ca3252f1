package property

import (
	"slices"

	"github.com/sec-js/attack-flow/internal/schema"
)

// ListProperty is an ordered collection of properties sharing one form.
type ListProperty struct {
	Collection
	desc *schema.ListDescriptor
}

// NewList returns an empty list property.
func NewList(d *schema.ListDescriptor) *ListProperty {
	p := &ListProperty{desc: d}
	p.init(p)
	return p
}

func (p *ListProperty) Kind() schema.Kind             { return schema.List }
func (p *ListProperty) Descriptor() schema.Descriptor { return p.desc }

// AppendValue instantiates v against the list's form and appends it.
func (p *ListProperty) AppendValue(v any) (string, error) {
	child, err := build(p.desc.Form, v, false, "")
	if err != nil {
		return "", err
	}
	return p.AddProperty(child)
}

func (p *ListProperty) Clone() Property {
	c := NewList(p.desc)
	p.cloneInto(&c.Collection)
	return c
}

// DictionaryProperty holds one child per field of its form.
type DictionaryProperty struct {
	Collection
	desc *schema.DictionaryDescriptor
}

// NewDictionary returns an empty dictionary property. Use New to obtain one
// populated with its form's fields.
func NewDictionary(d *schema.DictionaryDescriptor) *DictionaryProperty {
	p := &DictionaryProperty{desc: d}
	p.init(p)
	return p
}

func (p *DictionaryProperty) Kind() schema.Kind             { return schema.Dictionary }
func (p *DictionaryProperty) Descriptor() schema.Descriptor { return p.desc }

// Representative returns the text of the first field marked representative,
// or the empty string.
func (p *DictionaryProperty) Representative() string {
	for _, f := range p.desc.Form {
		if !f.Descriptor.Info().Representative {
			continue
		}
		if child, ok := p.Get(f.Name); ok {
			return child.String()
		}
	}
	return ""
}

// String returns the representative text when there is one.
func (p *DictionaryProperty) String() string {
	if s := p.Representative(); s != "" {
		return s
	}
	return p.Collection.String()
}

func (p *DictionaryProperty) Clone() Property {
	c := NewDictionary(p.desc)
	p.cloneInto(&c.Collection)
	return c
}

// TupleProperty holds one atomic child per field of its form.
type TupleProperty struct {
	Collection
	desc *schema.TupleDescriptor
}

// NewTuple returns an empty tuple property.
func NewTuple(d *schema.TupleDescriptor) *TupleProperty {
	p := &TupleProperty{desc: d}
	p.init(p)
	return p
}

func (p *TupleProperty) Kind() schema.Kind             { return schema.Tuple }
func (p *TupleProperty) Descriptor() schema.Descriptor { return p.desc }

// Suggestions returns the values field may take given the current values of
// its siblings. Without value combinations the field's own options are
// returned.
func (p *TupleProperty) Suggestions(field string) []string {
	fd, ok := p.desc.Form.Lookup(field)
	if !ok {
		return nil
	}
	if len(p.desc.ValidValueCombinations) == 0 {
		switch d := fd.(type) {
		case *schema.EnumDescriptor:
			return d.Options.OptionIDs()
		case *schema.StringDescriptor:
			return d.Options.OptionIDs()
		}
		return nil
	}
	var out []string
	for _, combo := range p.desc.ValidValueCombinations {
		value, ok := combo[field]
		if !ok || !p.matches(combo, field) || slices.Contains(out, value) {
			continue
		}
		out = append(out, value)
	}
	return out
}

// matches reports whether every set sibling of field agrees with combo.
func (p *TupleProperty) matches(combo schema.Combination, field string) bool {
	for id, child := range p.All() {
		if id == field || child.ToJSON() == nil {
			continue
		}
		want, ok := combo[id]
		if !ok {
			continue
		}
		got, isText := child.ToJSON().(string)
		if !isText {
			got = child.String()
		}
		if want != got {
			return false
		}
	}
	return true
}

func (p *TupleProperty) Clone() Property {
	c := NewTuple(p.desc)
	p.cloneInto(&c.Collection)
	return c
}

type subscription struct {
	id string
	fn func()
}

// RootProperty is the top-level dictionary owned by a diagram object. Any
// change below it invokes its subscribers synchronously, in subscription
// order.
type RootProperty struct {
	DictionaryProperty
	root        schema.Root
	subscribers []subscription
}

// NewRootProperty returns an empty root property. Use NewRoot to obtain one
// populated with its form's fields.
func NewRootProperty(root schema.Root) *RootProperty {
	p := &RootProperty{root: root}
	p.desc = &schema.DictionaryDescriptor{Form: root.Fields}
	p.init(p)
	p.onChange = p.notifySubscribers
	return p
}

// Schema returns the root form the property was instantiated from.
func (p *RootProperty) Schema() schema.Root { return p.root }

// Subscribe registers fn under id, replacing any callback already
// registered under the same id.
func (p *RootProperty) Subscribe(id string, fn func()) {
	for i, s := range p.subscribers {
		if s.id == id {
			p.subscribers[i].fn = fn
			return
		}
	}
	p.subscribers = append(p.subscribers, subscription{id: id, fn: fn})
}

// Unsubscribe removes the callback registered under id.
func (p *RootProperty) Unsubscribe(id string) {
	p.subscribers = slices.DeleteFunc(p.subscribers, func(s subscription) bool {
		return s.id == id
	})
}

func (p *RootProperty) notifySubscribers() {
	for _, s := range slices.Clone(p.subscribers) {
		s.fn()
	}
}

// Clone returns a deep copy without subscribers.
func (p *RootProperty) Clone() Property {
	return p.CloneRoot()
}

// CloneRoot returns a deep copy without subscribers.
func (p *RootProperty) CloneRoot() *RootProperty {
	c := NewRootProperty(p.root)
	p.cloneInto(&c.Collection)
	return c
}
