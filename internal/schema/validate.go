package schema

import (
	"fmt"
)

// ValidateRoot checks every field of a root form. See Validate.
func ValidateRoot(root Root) error {
	return validateFields(root.Fields, "", false)
}

// ValidateSimpleRoot checks a root form and additionally requires every field
// to conform to the simple grammar accepted by user-editable forms.
func ValidateSimpleRoot(root Root) error {
	if err := ValidateRoot(root); err != nil {
		return err
	}
	for _, f := range root.Fields {
		if !IsSimple(f.Descriptor) {
			return newErrorf(ErrNotSimple, f.Name, "%s nests collections deeper than a simple form allows", f.Descriptor.Kind())
		}
	}
	return nil
}

// Validate checks a descriptor once, at load time:
//   - field names are unique within every dictionary and tuple form
//   - tuple fields are atomic
//   - defaults type-check against their descriptor, recursively
//   - options are lists of atomic values
//   - bounds are ordered and enclose the default
//   - value combinations only name tuple fields
func Validate(d Descriptor) error {
	return validate(d, "")
}

func validate(d Descriptor, path string) error {
	switch d := d.(type) {
	case *IntDescriptor:
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			return newErrorf(ErrBadBounds, path, "min %d exceeds max %d", *d.Min, *d.Max)
		}
		if d.Default != nil {
			if err := d.Check(*d.Default); err != nil {
				return newErrorf(ErrBadDefault, join(path, "default"), "%v", err)
			}
		}
		return nil
	case *FloatDescriptor:
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			return newErrorf(ErrBadBounds, path, "min %g exceeds max %g", *d.Min, *d.Max)
		}
		if d.Default != nil {
			if err := d.Check(*d.Default); err != nil {
				return newErrorf(ErrBadDefault, join(path, "default"), "%v", err)
			}
		}
		return nil
	case *StringDescriptor:
		if d.Options == nil {
			return nil
		}
		return validateOptions(d.Options, join(path, "options"))
	case *DateDescriptor:
		return nil
	case *EnumDescriptor:
		if d.Options == nil {
			return newErrorf(ErrBadOptions, path, "enum requires options")
		}
		if err := validateOptions(d.Options, join(path, "options")); err != nil {
			return err
		}
		if d.Default != nil {
			if err := d.Check(*d.Default); err != nil {
				return newErrorf(ErrBadDefault, join(path, "default"), "%v", err)
			}
		}
		return nil
	case *ListDescriptor:
		if d.Form == nil {
			return newErrorf(ErrMalformed, path, "list requires a form")
		}
		if err := validate(d.Form, join(path, "form")); err != nil {
			return err
		}
		seen := make(map[string]bool, len(d.Default))
		for i, e := range d.Default {
			at := fmt.Sprintf("%s[%d]", join(path, "default"), i)
			if seen[e.ID] {
				return newErrorf(ErrBadDefault, at, "id %q used more than once", e.ID)
			}
			seen[e.ID] = true
			if err := CheckValue(d.Form, e.Value); err != nil {
				return newErrorf(ErrBadDefault, at, "%v", err)
			}
		}
		return nil
	case *DictionaryDescriptor:
		return validateFields(d.Form, join(path, "form"), false)
	case *TupleDescriptor:
		if err := validateFields(d.Form, join(path, "form"), true); err != nil {
			return err
		}
		for i, combo := range d.ValidValueCombinations {
			for field := range combo {
				if _, ok := d.Form.Lookup(field); !ok {
					return newErrorf(ErrBadCombination, fmt.Sprintf("%s[%d]", join(path, "valid_value_combinations"), i), "unknown field %q", field)
				}
			}
		}
		return nil
	case nil:
		return newErrorf(ErrMalformed, path, "missing descriptor")
	default:
		return newErrorf(ErrUnknownType, path, "unsupported descriptor %T", d)
	}
}

func validateFields(form Fields, path string, atomicOnly bool) error {
	seen := make(map[string]bool, len(form))
	for _, f := range form {
		at := join(path, f.Name)
		if seen[f.Name] {
			return newErrorf(ErrDuplicateField, at, "field %q declared more than once", f.Name)
		}
		seen[f.Name] = true
		if f.Descriptor == nil {
			return newErrorf(ErrMalformed, at, "missing descriptor")
		}
		if atomicOnly && !f.Descriptor.Kind().IsAtomic() {
			return newErrorf(ErrNotAtomic, at, "tuple fields must be atomic, got %s", f.Descriptor.Kind())
		}
		if err := validate(f.Descriptor, at); err != nil {
			return err
		}
	}
	return nil
}

func validateOptions(options *ListDescriptor, path string) error {
	if options.Form == nil || !options.Form.Kind().IsAtomic() {
		return newErrorf(ErrBadOptions, path, "options must be a list of atomic values")
	}
	return validate(options, path)
}

// IsSimple reports whether d belongs to the simple grammar: an atomic value,
// a list of atomic values, a dictionary of atomic values and simple lists, a
// list of such dictionaries, or a tuple.
func IsSimple(d Descriptor) bool {
	switch d := d.(type) {
	case *IntDescriptor, *FloatDescriptor, *StringDescriptor, *DateDescriptor, *EnumDescriptor:
		return true
	case *TupleDescriptor:
		return true
	case *ListDescriptor:
		return isAtomicList(d) || isSimpleDictionary(d.Form)
	case *DictionaryDescriptor:
		return isSimpleDictionary(d)
	}
	return false
}

func isAtomicList(d Descriptor) bool {
	l, ok := d.(*ListDescriptor)
	return ok && l.Form != nil && l.Form.Kind().IsAtomic()
}

func isSimpleDictionary(d Descriptor) bool {
	dict, ok := d.(*DictionaryDescriptor)
	if !ok {
		return false
	}
	for _, f := range dict.Form {
		if f.Descriptor == nil {
			return false
		}
		if !f.Descriptor.Kind().IsAtomic() && !isAtomicList(f.Descriptor) {
			return false
		}
	}
	return true
}
