package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
)

// DateLayouts are the accepted textual date formats, most precise first.
var DateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// AsInt converts a decoded JSON or YAML number to an int64.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, hence >=.
		if math.IsNaN(n) || n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return AsInt(f)
	}
	return 0, false
}

// AsFloat converts a decoded JSON or YAML number to a float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// AsDate converts a time or a textual date to a time.Time.
func AsDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		t, err := ParseDate(d)
		return t, err == nil
	}
	return time.Time{}, false
}

// ParseDate parses s using the first matching layout of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
}

// Check reports whether v lies within the descriptor's bounds.
func (d *IntDescriptor) Check(v int64) error {
	if d.Min != nil && v < *d.Min {
		return fmt.Errorf("%d is less than minimum %d", v, *d.Min)
	}
	if d.Max != nil && v > *d.Max {
		return fmt.Errorf("%d is greater than maximum %d", v, *d.Max)
	}
	return nil
}

// Check reports whether v lies within the descriptor's bounds.
func (d *FloatDescriptor) Check(v float64) error {
	if d.Min != nil && v < *d.Min {
		return fmt.Errorf("%g is less than minimum %g", v, *d.Min)
	}
	if d.Max != nil && v > *d.Max {
		return fmt.Errorf("%g is greater than maximum %g", v, *d.Max)
	}
	return nil
}

// Check reports whether v is one of the enum's permitted option ids. An enum
// whose options declare no entries permits any value.
func (d *EnumDescriptor) Check(v string) error {
	ids := d.Options.OptionIDs()
	if len(ids) == 0 || slices.Contains(ids, v) {
		return nil
	}
	return fmt.Errorf("%q is not one of %v", v, ids)
}

// CheckValue reports whether a plain JSON value (objects for dictionaries and
// tuples, arrays for lists) conforms to d. A nil value always conforms.
func CheckValue(d Descriptor, v any) error {
	if v == nil {
		return nil
	}
	switch d := d.(type) {
	case *IntDescriptor:
		i, ok := AsInt(v)
		if !ok {
			return fmt.Errorf("expected int, got %T", v)
		}
		return d.Check(i)
	case *FloatDescriptor:
		f, ok := AsFloat(v)
		if !ok {
			return fmt.Errorf("expected float, got %T", v)
		}
		return d.Check(f)
	case *StringDescriptor:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		return nil
	case *DateDescriptor:
		if _, ok := AsDate(v); !ok {
			return fmt.Errorf("expected date, got %v", v)
		}
		return nil
	case *EnumDescriptor:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected enum string, got %T", v)
		}
		return d.Check(s)
	case *ListDescriptor:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected list, got %T", v)
		}
		for i, item := range items {
			if err := CheckValue(d.Form, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case *DictionaryDescriptor:
		return checkFields(d.Form, v)
	case *TupleDescriptor:
		return checkFields(d.Form, v)
	default:
		return fmt.Errorf("unsupported descriptor %T", d)
	}
}

func checkFields(form Fields, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", v)
	}
	for key, value := range obj {
		fd, ok := form.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown field %q", key)
		}
		if err := CheckValue(fd, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
