package property

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sec-js/attack-flow/internal/schema"
)

// IntProperty holds a nullable integer.
type IntProperty struct {
	node
	desc  *schema.IntDescriptor
	value *int64
}

// NewInt returns an int property holding the descriptor's default.
func NewInt(d *schema.IntDescriptor) *IntProperty {
	p := &IntProperty{desc: d}
	if d.Default != nil {
		v := *d.Default
		p.value = &v
	}
	return p
}

func (p *IntProperty) Kind() schema.Kind             { return schema.Int }
func (p *IntProperty) Descriptor() schema.Descriptor { return p.desc }

// Value returns the value and whether it is set.
func (p *IntProperty) Value() (int64, bool) {
	if p.value == nil {
		return 0, false
	}
	return *p.value, true
}

// Set assigns v, rejecting values outside the descriptor's bounds.
func (p *IntProperty) Set(v int64) error {
	if err := p.desc.Check(v); err != nil {
		return err
	}
	p.value = &v
	p.changed()
	return nil
}

// SetNull clears the value.
func (p *IntProperty) SetNull() {
	p.value = nil
	p.changed()
}

// SetValue assigns a JSON value; nil clears the property.
func (p *IntProperty) SetValue(v any) error {
	if v == nil {
		p.SetNull()
		return nil
	}
	i, ok := schema.AsInt(v)
	if !ok {
		return fmt.Errorf("expected int, got %T", v)
	}
	return p.Set(i)
}

func (p *IntProperty) ToJSON() any {
	if p.value == nil {
		return nil
	}
	return *p.value
}

func (p *IntProperty) String() string {
	if p.value == nil {
		return ""
	}
	return strconv.FormatInt(*p.value, 10)
}

func (p *IntProperty) HashValue() uint64 {
	if p.value == nil {
		return computeHash(nullHashText)
	}
	return computeHash(p.String())
}

func (p *IntProperty) Clone() Property {
	c := &IntProperty{desc: p.desc}
	if p.value != nil {
		v := *p.value
		c.value = &v
	}
	return c
}

// FloatProperty holds a nullable float.
type FloatProperty struct {
	node
	desc  *schema.FloatDescriptor
	value *float64
}

// NewFloat returns a float property holding the descriptor's default.
func NewFloat(d *schema.FloatDescriptor) *FloatProperty {
	p := &FloatProperty{desc: d}
	if d.Default != nil {
		v := *d.Default
		p.value = &v
	}
	return p
}

func (p *FloatProperty) Kind() schema.Kind             { return schema.Float }
func (p *FloatProperty) Descriptor() schema.Descriptor { return p.desc }

// Value returns the value and whether it is set.
func (p *FloatProperty) Value() (float64, bool) {
	if p.value == nil {
		return 0, false
	}
	return *p.value, true
}

// Set assigns v, rejecting values outside the descriptor's bounds.
func (p *FloatProperty) Set(v float64) error {
	if err := p.desc.Check(v); err != nil {
		return err
	}
	p.value = &v
	p.changed()
	return nil
}

// SetNull clears the value.
func (p *FloatProperty) SetNull() {
	p.value = nil
	p.changed()
}

// SetValue assigns a JSON value; nil clears the property.
func (p *FloatProperty) SetValue(v any) error {
	if v == nil {
		p.SetNull()
		return nil
	}
	f, ok := schema.AsFloat(v)
	if !ok {
		return fmt.Errorf("expected float, got %T", v)
	}
	return p.Set(f)
}

func (p *FloatProperty) ToJSON() any {
	if p.value == nil {
		return nil
	}
	return *p.value
}

func (p *FloatProperty) String() string {
	if p.value == nil {
		return ""
	}
	return strconv.FormatFloat(*p.value, 'g', -1, 64)
}

func (p *FloatProperty) HashValue() uint64 {
	if p.value == nil {
		return computeHash(nullHashText)
	}
	return computeHash(p.String())
}

func (p *FloatProperty) Clone() Property {
	c := &FloatProperty{desc: p.desc}
	if p.value != nil {
		v := *p.value
		c.value = &v
	}
	return c
}

// StringProperty holds a nullable string.
type StringProperty struct {
	node
	desc  *schema.StringDescriptor
	value *string
}

// NewString returns a string property holding the descriptor's default.
func NewString(d *schema.StringDescriptor) *StringProperty {
	p := &StringProperty{desc: d}
	if d.Default != nil {
		v := *d.Default
		p.value = &v
	}
	return p
}

func (p *StringProperty) Kind() schema.Kind             { return schema.String }
func (p *StringProperty) Descriptor() schema.Descriptor { return p.desc }

// Value returns the value and whether it is set.
func (p *StringProperty) Value() (string, bool) {
	if p.value == nil {
		return "", false
	}
	return *p.value, true
}

// Set assigns v.
func (p *StringProperty) Set(v string) {
	p.value = &v
	p.changed()
}

// SetNull clears the value.
func (p *StringProperty) SetNull() {
	p.value = nil
	p.changed()
}

// SetValue assigns a JSON value; nil clears the property.
func (p *StringProperty) SetValue(v any) error {
	if v == nil {
		p.SetNull()
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	p.Set(s)
	return nil
}

// Suggestions returns the ids of the descriptor's suggested options.
func (p *StringProperty) Suggestions() []string {
	return p.desc.Options.OptionIDs()
}

func (p *StringProperty) ToJSON() any {
	if p.value == nil {
		return nil
	}
	return *p.value
}

func (p *StringProperty) String() string {
	if p.value == nil {
		return ""
	}
	return *p.value
}

func (p *StringProperty) HashValue() uint64 {
	if p.value == nil {
		return computeHash(nullHashText)
	}
	return computeHash(*p.value)
}

func (p *StringProperty) Clone() Property {
	c := &StringProperty{desc: p.desc}
	if p.value != nil {
		v := *p.value
		c.value = &v
	}
	return c
}

// DateProperty holds a nullable point in time.
type DateProperty struct {
	node
	desc  *schema.DateDescriptor
	value *time.Time
}

// NewDate returns a date property holding the descriptor's default.
func NewDate(d *schema.DateDescriptor) *DateProperty {
	p := &DateProperty{desc: d}
	if d.Default != nil {
		v := *d.Default
		p.value = &v
	}
	return p
}

func (p *DateProperty) Kind() schema.Kind             { return schema.Date }
func (p *DateProperty) Descriptor() schema.Descriptor { return p.desc }

// Value returns the value and whether it is set.
func (p *DateProperty) Value() (time.Time, bool) {
	if p.value == nil {
		return time.Time{}, false
	}
	return *p.value, true
}

// Set assigns v.
func (p *DateProperty) Set(v time.Time) {
	p.value = &v
	p.changed()
}

// SetNull clears the value.
func (p *DateProperty) SetNull() {
	p.value = nil
	p.changed()
}

// SetValue assigns a time or textual date; nil clears the property.
func (p *DateProperty) SetValue(v any) error {
	if v == nil {
		p.SetNull()
		return nil
	}
	t, ok := schema.AsDate(v)
	if !ok {
		return fmt.Errorf("expected date, got %v", v)
	}
	p.Set(t)
	return nil
}

func (p *DateProperty) ToJSON() any {
	if p.value == nil {
		return nil
	}
	return p.value.Format(time.RFC3339)
}

func (p *DateProperty) String() string {
	if p.value == nil {
		return ""
	}
	return p.value.Format(time.RFC3339)
}

func (p *DateProperty) HashValue() uint64 {
	if p.value == nil {
		return computeHash(nullHashText)
	}
	return computeHash(p.value.Format(time.RFC3339Nano))
}

func (p *DateProperty) Clone() Property {
	c := &DateProperty{desc: p.desc}
	if p.value != nil {
		v := *p.value
		c.value = &v
	}
	return c
}

// EnumProperty holds one of its descriptor's option ids, or null.
type EnumProperty struct {
	node
	desc  *schema.EnumDescriptor
	value *string
}

// NewEnum returns an enum property holding the descriptor's default.
func NewEnum(d *schema.EnumDescriptor) *EnumProperty {
	p := &EnumProperty{desc: d}
	if d.Default != nil {
		v := *d.Default
		p.value = &v
	}
	return p
}

func (p *EnumProperty) Kind() schema.Kind             { return schema.Enum }
func (p *EnumProperty) Descriptor() schema.Descriptor { return p.desc }

// Value returns the selected option id and whether one is selected.
func (p *EnumProperty) Value() (string, bool) {
	if p.value == nil {
		return "", false
	}
	return *p.value, true
}

// Set selects option v.
func (p *EnumProperty) Set(v string) error {
	if err := p.desc.Check(v); err != nil {
		return err
	}
	p.value = &v
	p.changed()
	return nil
}

// SetNull clears the selection.
func (p *EnumProperty) SetNull() {
	p.value = nil
	p.changed()
}

// SetValue assigns a JSON value; nil clears the selection.
func (p *EnumProperty) SetValue(v any) error {
	if v == nil {
		p.SetNull()
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected enum string, got %T", v)
	}
	return p.Set(s)
}

// Options returns the permitted option ids.
func (p *EnumProperty) Options() []string {
	return p.desc.Options.OptionIDs()
}

func (p *EnumProperty) ToJSON() any {
	if p.value == nil {
		return nil
	}
	return *p.value
}

// String returns the selected option's label, falling back to its id.
func (p *EnumProperty) String() string {
	if p.value == nil {
		return ""
	}
	if p.desc.Options != nil {
		for _, o := range p.desc.Options.Default {
			if o.ID == *p.value {
				if label, ok := o.Value.(string); ok {
					return label
				}
			}
		}
	}
	return *p.value
}

func (p *EnumProperty) HashValue() uint64 {
	if p.value == nil {
		return computeHash(nullHashText)
	}
	return computeHash(*p.value)
}

func (p *EnumProperty) Clone() Property {
	c := &EnumProperty{desc: p.desc}
	if p.value != nil {
		v := *p.value
		c.value = &v
	}
	return c
}
