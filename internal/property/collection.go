package property

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"iter"
	"strconv"
	"strings"

	list "github.com/bahlo/generic-list-go"
	"github.com/google/uuid"

	"github.com/sec-js/attack-flow/internal/schema"
)

// maxIDAttempts bounds id generation. Reaching it means the random source is
// broken, not that the collection is full.
const maxIDAttempts = 16

// randomUUID is the random source behind generated ids.
var randomUUID = uuid.NewRandom

type entry struct {
	id   string
	prop Property
}

// Collection is the ordered, keyed set of children shared by list,
// dictionary, tuple and root properties. Keys are unique and iteration
// follows insertion order.
type Collection struct {
	node
	// self is the property embedding this collection; children point to it.
	self    Property
	entries *list.List[entry]
	index   map[string]*list.Element[entry]
}

func (c *Collection) init(self Property) {
	c.self = self
	c.entries = list.New[entry]()
	c.index = make(map[string]*list.Element[entry])
}

// AddOption configures AddProperty.
type AddOption func(*addOptions)

type addOptions struct {
	id       string
	hasID    bool
	index    int
	hasIndex bool
	update   bool
}

// WithID adds the property under id instead of a generated one. The id
// must not be empty.
func WithID(id string) AddOption {
	return func(o *addOptions) { o.id, o.hasID = id, true }
}

// AtIndex inserts the property at ordinal i, shifting later entries. i must
// be between 0 and Len(), inclusive.
func AtIndex(i int) AddOption {
	return func(o *addOptions) { o.index, o.hasIndex = i, true }
}

// WithoutUpdate suppresses the change notification. Callers batching
// several additions must call UpdateParent once afterwards.
func WithoutUpdate() AddOption {
	return func(o *addOptions) { o.update = false }
}

// AddProperty adds p to the collection and returns its id. By default the id
// is generated, p is appended, and the parent chain is notified.
func (c *Collection) AddProperty(p Property, opts ...AddOption) (string, error) {
	o := addOptions{update: true}
	for _, opt := range opts {
		opt(&o)
	}
	if p.base().parent != nil {
		return "", ErrAttached
	}
	if o.hasID && o.id == "" {
		return "", ErrEmptyID
	}
	if o.hasIndex && (o.index < 0 || o.index > c.entries.Len()) {
		return "", fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, o.index, c.entries.Len())
	}
	id := o.id
	if !o.hasID {
		var err error
		if id, err = c.NextID(); err != nil {
			return "", err
		}
	}
	if _, ok := c.index[id]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	e := entry{id: id, prop: p}
	if !o.hasIndex || o.index == c.entries.Len() {
		c.index[id] = c.entries.PushBack(e)
	} else {
		mark := c.entries.Front()
		for i := 0; i < o.index; i++ {
			mark = mark.Next()
		}
		c.index[id] = c.entries.InsertBefore(e, mark)
	}
	p.base().parent = c.self
	if o.update {
		c.changed()
	}
	return id, nil
}

// RemoveProperty detaches and removes the property with the given id. Removing
// an absent id is a no-op; the parent chain is notified either way.
func (c *Collection) RemoveProperty(id string) {
	if el, ok := c.index[id]; ok {
		el.Value.prop.base().parent = nil
		c.entries.Remove(el)
		delete(c.index, id)
	}
	c.changed()
}

// UpdateParent notifies the parent chain that the collection changed.
func (c *Collection) UpdateParent() {
	c.changed()
}

// Get returns the child with the given id.
func (c *Collection) Get(id string) (Property, bool) {
	el, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return el.Value.prop, true
}

// GetKind returns the child with the given id, failing with a
// *TypeMismatchError if it is not of the expected kind. The boolean reports
// whether the id is present.
func (c *Collection) GetKind(id string, kind schema.Kind) (Property, bool, error) {
	p, ok := c.Get(id)
	if !ok {
		return nil, false, nil
	}
	if p.Kind() != kind {
		return nil, true, &TypeMismatchError{ID: id, Want: kind, Got: p.Kind()}
	}
	return p, true, nil
}

// IndexOf returns the ordinal of id in insertion order, or -1.
func (c *Collection) IndexOf(id string) int {
	if _, ok := c.index[id]; !ok {
		return -1
	}
	i := 0
	for el := c.entries.Front(); el != nil; el = el.Next() {
		if el.Value.id == id {
			return i
		}
		i++
	}
	return -1
}

// Len returns the number of children.
func (c *Collection) Len() int {
	return c.entries.Len()
}

// Keys returns the child ids in order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.id)
	}
	return keys
}

// All iterates over the children in order.
func (c *Collection) All() iter.Seq2[string, Property] {
	return func(yield func(string, Property) bool) {
		for el := c.entries.Front(); el != nil; el = el.Next() {
			if !yield(el.Value.id, el.Value.prop) {
				return
			}
		}
	}
}

// NextID returns a random id not in use by the collection.
func (c *Collection) NextID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		u, err := randomUUID()
		if err != nil {
			return "", fmt.Errorf("generating property id: %w", err)
		}
		sum := md5.Sum([]byte(u.String()))
		id := hex.EncodeToString(sum[:])
		if _, taken := c.index[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// ToJSON returns a map of child id to child JSON value.
func (c *Collection) ToJSON() any {
	out := make(map[string]any, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		out[el.Value.id] = el.Value.prop.ToJSON()
	}
	return out
}

// ToOrderedJSON returns the children as (id, value) entries. Nested
// collections recurse into their ordered form.
func (c *Collection) ToOrderedJSON() []Entry {
	out := make([]Entry, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		if coll, ok := el.Value.prop.(collection); ok {
			out = append(out, Entry{ID: el.Value.id, Value: coll.ToOrderedJSON()})
		} else {
			out = append(out, Entry{ID: el.Value.id, Value: el.Value.prop.ToJSON()})
		}
	}
	return out
}

// HashValue hashes the children's hashes in order, so reordering children
// changes the hash.
func (c *Collection) HashValue() uint64 {
	var b strings.Builder
	for el := c.entries.Front(); el != nil; el = el.Next() {
		if el != c.entries.Front() {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(el.Value.prop.HashValue(), 10))
	}
	return computeHash(b.String())
}

// String joins the children's text.
func (c *Collection) String() string {
	parts := make([]string, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		if s := el.Value.prop.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// cloneInto copies every child of c into dst, preserving ids and order.
func (c *Collection) cloneInto(dst *Collection) {
	for el := c.entries.Front(); el != nil; el = el.Next() {
		e := entry{id: el.Value.id, prop: el.Value.prop.Clone()}
		e.prop.base().parent = dst.self
		dst.index[e.id] = dst.entries.PushBack(e)
	}
}

// collection is implemented by every property embedding a Collection.
type collection interface {
	Property
	ToOrderedJSON() []Entry
	coll() *Collection
}

func (c *Collection) coll() *Collection { return c }
