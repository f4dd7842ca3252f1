package schema

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

var commonKeys = []string{"type", "name", "is_editable", "is_representative", "metadata"}

var kindKeys = map[Kind][]string{
	Int:        {"default", "min", "max"},
	Float:      {"default", "min", "max"},
	String:     {"default", "options"},
	Date:       {"default"},
	Enum:       {"default", "options"},
	List:       {"form", "default"},
	Dictionary: {"form"},
	Tuple:      {"form", "valid_value_combinations"},
}

// ParseRoot decodes a root property descriptor from YAML (or JSON) source.
// The result is parsed, not validated; see ValidateRoot.
func ParseRoot(data []byte) (Root, error) {
	var root Root
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Root{}, err
	}
	return root, nil
}

// ParseDescriptor decodes a single descriptor from YAML (or JSON) source.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return Parse(node.Content[0])
	}
	return Parse(&node)
}

// Parse decodes a descriptor from a YAML node.
func Parse(node *yaml.Node) (Descriptor, error) {
	return parseDescriptor(node, "")
}

// UnmarshalYAML decodes the root form, preserving field order.
func (r *Root) UnmarshalYAML(node *yaml.Node) error {
	fields, err := parseFields(node, "")
	if err != nil {
		return err
	}
	r.Fields = fields
	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.ShortTag() == "!!null"
}

func parseFields(node *yaml.Node, path string) (Fields, error) {
	node = resolve(node)
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, newErrorf(ErrMalformed, path, "form must be a mapping of field names to descriptors")
	}
	fields := make(Fields, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return nil, newErrorf(ErrDuplicateField, join(path, name), "field %q declared more than once", name)
		}
		seen[name] = true
		d, err := parseDescriptor(node.Content[i+1], join(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Descriptor: d})
	}
	return fields, nil
}

func parseDescriptor(node *yaml.Node, path string) (Descriptor, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, newErrorf(ErrMalformed, path, "descriptor must be a mapping")
	}
	keys := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, dup := keys[key]; dup {
			return nil, newErrorf(ErrMalformed, path, "key %q declared more than once", key)
		}
		keys[key] = resolve(node.Content[i+1])
	}
	typeNode, ok := keys["type"]
	if !ok {
		return nil, newErrorf(ErrMalformed, path, "missing type")
	}
	kind, ok := ParseKind(typeNode.Value)
	if !ok {
		return nil, newErrorf(ErrUnknownType, path, "unknown type %q", typeNode.Value)
	}
	if err := checkKeys(keys, kind, path); err != nil {
		return nil, err
	}
	base, err := parseBase(keys, path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case Int:
		d := &IntDescriptor{Base: base}
		if d.Default, err = decodeInt(keys["default"], join(path, "default"), ErrBadDefault); err != nil {
			return nil, err
		}
		if d.Min, err = decodeInt(keys["min"], join(path, "min"), ErrBadBounds); err != nil {
			return nil, err
		}
		if d.Max, err = decodeInt(keys["max"], join(path, "max"), ErrBadBounds); err != nil {
			return nil, err
		}
		return d, nil
	case Float:
		d := &FloatDescriptor{Base: base}
		if d.Default, err = decodeFloat(keys["default"], join(path, "default"), ErrBadDefault); err != nil {
			return nil, err
		}
		if d.Min, err = decodeFloat(keys["min"], join(path, "min"), ErrBadBounds); err != nil {
			return nil, err
		}
		if d.Max, err = decodeFloat(keys["max"], join(path, "max"), ErrBadBounds); err != nil {
			return nil, err
		}
		return d, nil
	case String:
		d := &StringDescriptor{Base: base}
		if d.Default, err = decodeString(keys["default"], join(path, "default")); err != nil {
			return nil, err
		}
		if d.Options, err = parseOptions(keys["options"], join(path, "options")); err != nil {
			return nil, err
		}
		return d, nil
	case Date:
		d := &DateDescriptor{Base: base}
		if n := keys["default"]; !isNull(n) {
			t, err := ParseDate(n.Value)
			if err != nil {
				return nil, newErrorf(ErrBadDefault, join(path, "default"), "%v", err)
			}
			d.Default = &t
		}
		return d, nil
	case Enum:
		d := &EnumDescriptor{Base: base}
		if d.Default, err = decodeString(keys["default"], join(path, "default")); err != nil {
			return nil, err
		}
		if d.Options, err = parseOptions(keys["options"], join(path, "options")); err != nil {
			return nil, err
		}
		return d, nil
	case List:
		d := &ListDescriptor{Base: base}
		formNode, ok := keys["form"]
		if !ok {
			return nil, newErrorf(ErrMalformed, path, "list requires a form")
		}
		if d.Form, err = parseDescriptor(formNode, join(path, "form")); err != nil {
			return nil, err
		}
		if d.Default, err = parseListDefault(keys["default"], join(path, "default")); err != nil {
			return nil, err
		}
		return d, nil
	case Dictionary:
		d := &DictionaryDescriptor{Base: base}
		if d.Form, err = parseFields(keys["form"], join(path, "form")); err != nil {
			return nil, err
		}
		return d, nil
	case Tuple:
		d := &TupleDescriptor{Base: base}
		if d.Form, err = parseFields(keys["form"], join(path, "form")); err != nil {
			return nil, err
		}
		if n := keys["valid_value_combinations"]; !isNull(n) {
			if err := n.Decode(&d.ValidValueCombinations); err != nil {
				return nil, newErrorf(ErrBadCombination, join(path, "valid_value_combinations"), "%v", err)
			}
		}
		return d, nil
	}
	return nil, newErrorf(ErrUnknownType, path, "unknown type %q", typeNode.Value)
}

func checkKeys(keys map[string]*yaml.Node, kind Kind, path string) error {
	for key := range keys {
		if slices.Contains(commonKeys, key) || slices.Contains(kindKeys[kind], key) {
			continue
		}
		return newErrorf(ErrMalformed, path, "key %q is not valid for %s descriptors", key, kind)
	}
	return nil
}

func parseBase(keys map[string]*yaml.Node, path string) (Base, error) {
	base := Base{Editable: true}
	if n, ok := keys["name"]; ok {
		base.Name = n.Value
	}
	if n, ok := keys["is_editable"]; ok {
		if err := n.Decode(&base.Editable); err != nil {
			return base, newErrorf(ErrMalformed, join(path, "is_editable"), "%v", err)
		}
	}
	if n, ok := keys["is_representative"]; ok {
		if err := n.Decode(&base.Representative); err != nil {
			return base, newErrorf(ErrMalformed, join(path, "is_representative"), "%v", err)
		}
	}
	if n, ok := keys["metadata"]; ok && !isNull(n) {
		if err := n.Decode(&base.Metadata); err != nil {
			return base, newErrorf(ErrMalformed, join(path, "metadata"), "%v", err)
		}
	}
	return base, nil
}

func decodeInt(n *yaml.Node, path string, code ErrorCode) (*int64, error) {
	if isNull(n) {
		return nil, nil
	}
	var v int64
	if err := n.Decode(&v); err != nil {
		return nil, newErrorf(code, path, "expected int: %v", err)
	}
	return &v, nil
}

func decodeFloat(n *yaml.Node, path string, code ErrorCode) (*float64, error) {
	if isNull(n) {
		return nil, nil
	}
	var v float64
	if err := n.Decode(&v); err != nil {
		return nil, newErrorf(code, path, "expected float: %v", err)
	}
	return &v, nil
}

func decodeString(n *yaml.Node, path string) (*string, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return nil, newErrorf(ErrBadDefault, path, "expected string, got %s", n.ShortTag())
	}
	v := n.Value
	return &v, nil
}

func parseOptions(n *yaml.Node, path string) (*ListDescriptor, error) {
	if isNull(n) {
		return nil, nil
	}
	d, err := parseDescriptor(n, path)
	if err != nil {
		return nil, err
	}
	list, ok := d.(*ListDescriptor)
	if !ok {
		return nil, newErrorf(ErrBadOptions, path, "options must be a list, got %s", d.Kind())
	}
	return list, nil
}

// parseListDefault accepts a sequence of [id, value] pairs or a sequence of
// scalars, in which case each scalar doubles as its own id.
func parseListDefault(n *yaml.Node, path string) ([]DefaultEntry, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, newErrorf(ErrBadDefault, path, "list default must be a sequence")
	}
	entries := make([]DefaultEntry, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolve(item)
		var entry DefaultEntry
		switch {
		case item.Kind == yaml.SequenceNode && len(item.Content) == 2 && item.Content[0].Kind == yaml.ScalarNode:
			entry.ID = item.Content[0].Value
			if err := item.Content[1].Decode(&entry.Value); err != nil {
				return nil, newErrorf(ErrBadDefault, fmt.Sprintf("%s[%d]", path, i), "%v", err)
			}
		case item.Kind == yaml.ScalarNode:
			entry.ID = item.Value
			if err := item.Decode(&entry.Value); err != nil {
				return nil, newErrorf(ErrBadDefault, fmt.Sprintf("%s[%d]", path, i), "%v", err)
			}
		default:
			return nil, newErrorf(ErrBadDefault, fmt.Sprintf("%s[%d]", path, i), "entry must be a scalar or an [id, value] pair")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
