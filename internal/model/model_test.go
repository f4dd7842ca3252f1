package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sec-js/attack-flow/internal/property"
	"github.com/sec-js/attack-flow/internal/template"
)

const templatesYAML = `
templates:
  - id: anchor_point
    type: anchor
  - id: flow
    type: group
    properties:
      name: { type: string, default: "Untitled" }
  - id: action
    type: block
    properties:
      name:
        type: string
        is_representative: true
      tags:
        type: list
        form: { type: string }
    anchors:
      - { position: D0, template: anchor_point }
      - { position: D90, template: anchor_point }
      - { position: D180, template: anchor_point }
`

func newFactory(t *testing.T) *Factory {
	t.Helper()
	templates, err := template.Parse([]byte(templatesYAML), "test.yaml")
	require.NoError(t, err)
	reg, err := template.NewRegistry(templates)
	require.NoError(t, err)
	return NewFactory(reg)
}

func TestFactory_NewBlock(t *testing.T) {
	f := newFactory(t)
	b, err := f.NewBlock("action", map[string]any{"name": "Phish", "tags": []any{"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, "action", b.ID())
	assert.NotEmpty(t, b.Instance())
	assert.Equal(t, "Phish", b.Properties().Representative())
	assert.Equal(t, []string{"D0", "D90", "D180"}, b.Positions())

	for pos, a := range b.Anchors() {
		assert.Equal(t, pos, a.Position())
		assert.Same(t, b, a.Parent())
		assert.Equal(t, "anchor_point", a.ID())
	}

	other, err := f.NewBlock("action", nil)
	require.NoError(t, err)
	assert.NotEqual(t, b.Instance(), other.Instance())
}

func TestFactory_Errors(t *testing.T) {
	f := newFactory(t)

	_, err := f.NewBlock("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	_, err = f.NewBlock("anchor_point", nil)
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = f.NewBlock("action", map[string]any{"color": "red"})
	var verr *property.ValueError
	assert.ErrorAs(t, err, &verr)

	_, err = f.NewObject("anchor_point", map[string]any{"x": 1})
	assert.Error(t, err)
}

func TestFactory_NewObject(t *testing.T) {
	f := newFactory(t)

	o, err := f.NewObject("flow", nil)
	require.NoError(t, err)
	g, ok := o.(*Group)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Untitled"}, g.Properties().ToJSON())

	o, err = f.NewObject("anchor_point", nil)
	require.NoError(t, err)
	assert.IsType(t, &Anchor{}, o)

	o, err = f.NewObject("action", nil)
	require.NoError(t, err)
	assert.IsType(t, &Block{}, o)
}

func TestBlock_Anchors(t *testing.T) {
	f := newFactory(t)
	b, err := f.NewBlock("action", nil)
	require.NoError(t, err)

	a, ok := b.Anchor("D90")
	require.True(t, ok)

	assert.Nil(t, b.RemoveAnchor("D270"))
	assert.Len(t, b.Positions(), 3)

	removed := b.RemoveAnchor("D90")
	assert.Same(t, a, removed)
	assert.Nil(t, removed.Parent())
	assert.Empty(t, removed.Position())
	assert.Equal(t, []string{"D0", "D180"}, b.Positions())

	require.NoError(t, b.AddAnchor("D270", removed))
	assert.Equal(t, []string{"D0", "D180", "D270"}, b.Positions())

	err = b.AddAnchor("D0", a.IsolatedClone(""))
	assert.ErrorIs(t, err, ErrAnchorExists)

	err = b.AddAnchor("D45", removed)
	assert.ErrorIs(t, err, ErrAnchorAttached)
}

func TestBlock_Clone(t *testing.T) {
	f := newFactory(t)
	b, err := f.NewBlock("action", map[string]any{"name": "Phish"})
	require.NoError(t, err)

	instances := map[string]string{}
	c := b.Clone("", instances)

	assert.NotEqual(t, b.Instance(), c.Instance())
	assert.Equal(t, b.ID(), c.ID())
	assert.Equal(t, b.Positions(), c.Positions())
	assert.Len(t, instances, 4)
	assert.Equal(t, c.Instance(), instances[b.Instance()])

	for pos, a := range b.Anchors() {
		ca, ok := c.Anchor(pos)
		require.True(t, ok)
		assert.Same(t, c, ca.Parent())
		assert.Equal(t, ca.Instance(), instances[a.Instance()])
	}

	name, ok := c.Properties().Get("name")
	require.True(t, ok)
	name.(*property.StringProperty).Set("Renamed")
	assert.Equal(t, "Phish", b.Properties().Representative())
	assert.Equal(t, "Renamed", c.Properties().Representative())

	iso := b.IsolatedClone("fixed")
	assert.Equal(t, "fixed", iso.Instance())
	assert.Empty(t, iso.Positions())
}

func TestGroup_Objects(t *testing.T) {
	f := newFactory(t)
	g, err := f.NewGroup("flow", nil)
	require.NoError(t, err)
	b1, err := f.NewBlock("action", nil)
	require.NoError(t, err)
	b2, err := f.NewBlock("action", nil)
	require.NoError(t, err)

	require.NoError(t, g.AddObject(b1))
	require.NoError(t, g.AddObject(b2))
	assert.ErrorIs(t, g.AddObject(b1), ErrObjectExists)
	assert.Len(t, g.Objects(), 2)

	assert.Nil(t, g.RemoveObject("nope"))
	assert.Same(t, b1, g.RemoveObject(b1.Instance()))
	assert.Equal(t, []DiagramObject{b2}, g.Objects())
}
