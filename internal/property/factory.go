package property

import (
	"fmt"

	"github.com/sec-js/attack-flow/internal/schema"
)

// New instantiates a property from plain JSON data: arrays of values for
// lists, objects for dictionaries and tuples. A nil value yields the
// descriptor's default.
func New(d schema.Descriptor, data any) (Property, error) {
	if data == nil {
		return newDefault(d)
	}
	return build(d, data, false, "")
}

// NewOrdered instantiates a property from ordered JSON data, as produced by
// ToOrderedJSON: every collection is a sequence of [id, value] pairs, and
// the ids are preserved.
func NewOrdered(d schema.Descriptor, data any) (Property, error) {
	if data == nil {
		return newDefault(d)
	}
	return build(d, data, true, "")
}

// NewRoot instantiates a root property from plain JSON field values. Fields
// absent from data take their defaults.
func NewRoot(root schema.Root, data map[string]any) (*RootProperty, error) {
	p := NewRootProperty(root)
	if err := fillFields(&p.Collection, root.Fields, data, false, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRootOrdered instantiates a root property from ordered JSON entries.
func NewRootOrdered(root schema.Root, data any) (*RootProperty, error) {
	p := NewRootProperty(root)
	var values map[string]any
	if data != nil {
		entries, err := toEntries(data, "")
		if err != nil {
			return nil, err
		}
		values = make(map[string]any, len(entries))
		for _, e := range entries {
			values[e.ID] = e.Value
		}
	}
	if err := fillFields(&p.Collection, root.Fields, values, true, ""); err != nil {
		return nil, err
	}
	return p, nil
}

func build(d schema.Descriptor, data any, ordered bool, path string) (Property, error) {
	switch d := d.(type) {
	case *schema.IntDescriptor:
		return setAtomic(NewInt(d), data, path)
	case *schema.FloatDescriptor:
		return setAtomic(NewFloat(d), data, path)
	case *schema.StringDescriptor:
		return setAtomic(NewString(d), data, path)
	case *schema.DateDescriptor:
		return setAtomic(NewDate(d), data, path)
	case *schema.EnumDescriptor:
		return setAtomic(NewEnum(d), data, path)
	case *schema.ListDescriptor:
		p := NewList(d)
		if data == nil {
			return p, nil
		}
		if ordered {
			entries, err := toEntries(data, path)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if err := addBuilt(&p.Collection, d.Form, e.ID, e.Value, true, join(path, e.ID)); err != nil {
					return nil, err
				}
			}
			return p, nil
		}
		items, ok := data.([]any)
		if !ok {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("expected list, got %T", data)}
		}
		for i, item := range items {
			if err := addBuilt(&p.Collection, d.Form, "", item, false, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return nil, err
			}
		}
		return p, nil
	case *schema.DictionaryDescriptor:
		p := NewDictionary(d)
		values, err := toFieldValues(data, ordered, path)
		if err != nil {
			return nil, err
		}
		if err := fillFields(&p.Collection, d.Form, values, ordered, path); err != nil {
			return nil, err
		}
		return p, nil
	case *schema.TupleDescriptor:
		p := NewTuple(d)
		values, err := toFieldValues(data, ordered, path)
		if err != nil {
			return nil, err
		}
		if err := fillFields(&p.Collection, d.Form, values, ordered, path); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, &ValueError{Path: path, Err: fmt.Errorf("unsupported descriptor %T", d)}
}

// newDefault instantiates d holding its default value.
func newDefault(d schema.Descriptor) (Property, error) {
	switch d := d.(type) {
	case *schema.IntDescriptor:
		return NewInt(d), nil
	case *schema.FloatDescriptor:
		return NewFloat(d), nil
	case *schema.StringDescriptor:
		return NewString(d), nil
	case *schema.DateDescriptor:
		return NewDate(d), nil
	case *schema.EnumDescriptor:
		return NewEnum(d), nil
	case *schema.ListDescriptor:
		p := NewList(d)
		for _, e := range d.Default {
			if err := addBuilt(&p.Collection, d.Form, e.ID, e.Value, false, e.ID); err != nil {
				return nil, err
			}
		}
		return p, nil
	case *schema.DictionaryDescriptor:
		p := NewDictionary(d)
		if err := fillFields(&p.Collection, d.Form, nil, false, ""); err != nil {
			return nil, err
		}
		return p, nil
	case *schema.TupleDescriptor:
		p := NewTuple(d)
		if err := fillFields(&p.Collection, d.Form, nil, false, ""); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, &ValueError{Err: fmt.Errorf("unsupported descriptor %T", d)}
}

type atomic interface {
	Property
	SetValue(v any) error
}

// setAtomic assigns data to a freshly created atomic property; nil data
// yields null.
func setAtomic(p atomic, data any, path string) (Property, error) {
	if err := p.SetValue(data); err != nil {
		return nil, &ValueError{Path: path, Err: err}
	}
	return p, nil
}

func addBuilt(c *Collection, form schema.Descriptor, id string, data any, ordered bool, path string) error {
	child, err := build(form, data, ordered, path)
	if err != nil {
		return err
	}
	opts := []AddOption{WithoutUpdate()}
	if id != "" {
		opts = append(opts, WithID(id))
	}
	if _, err := c.AddProperty(child, opts...); err != nil {
		return &ValueError{Path: path, Err: err}
	}
	return nil
}

// fillFields adds one child per form field, in declaration order. Fields
// missing from values take their defaults; keys outside the form fail.
func fillFields(c *Collection, form schema.Fields, values map[string]any, ordered bool, path string) error {
	for key := range values {
		if _, ok := form.Lookup(key); !ok {
			return &ValueError{Path: join(path, key), Err: fmt.Errorf("unknown field %q", key)}
		}
	}
	for _, f := range form {
		var (
			child Property
			err   error
		)
		if v, ok := values[f.Name]; ok {
			child, err = build(f.Descriptor, v, ordered, join(path, f.Name))
		} else {
			child, err = newDefault(f.Descriptor)
		}
		if err != nil {
			return err
		}
		if _, err := c.AddProperty(child, WithID(f.Name), WithoutUpdate()); err != nil {
			return &ValueError{Path: join(path, f.Name), Err: err}
		}
	}
	return nil
}

func toFieldValues(data any, ordered bool, path string) (map[string]any, error) {
	if data == nil {
		return nil, nil
	}
	if !ordered {
		obj, ok := data.(map[string]any)
		if !ok {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("expected object, got %T", data)}
		}
		return obj, nil
	}
	entries, err := toEntries(data, path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(entries))
	for _, e := range entries {
		if _, dup := values[e.ID]; dup {
			return nil, &ValueError{Path: join(path, e.ID), Err: fmt.Errorf("field %q repeated", e.ID)}
		}
		values[e.ID] = e.Value
	}
	return values, nil
}

// toEntries accepts []Entry or a decoded JSON array of [id, value] pairs.
func toEntries(data any, path string) ([]Entry, error) {
	switch v := data.(type) {
	case []Entry:
		return v, nil
	case []any:
		entries := make([]Entry, 0, len(v))
		for i, item := range v {
			switch pair := item.(type) {
			case Entry:
				entries = append(entries, pair)
			case []any:
				if len(pair) != 2 {
					return nil, &ValueError{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("expected [id, value] pair")}
				}
				id, ok := pair[0].(string)
				if !ok {
					return nil, &ValueError{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("expected [id, value] pair")}
				}
				entries = append(entries, Entry{ID: id, Value: pair[1]})
			default:
				return nil, &ValueError{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("expected [id, value] pair, got %T", item)}
			}
		}
		return entries, nil
	}
	return nil, &ValueError{Path: path, Err: fmt.Errorf("expected ordered entries, got %T", data)}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
