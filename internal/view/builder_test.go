package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sec-js/attack-flow/internal/model"
	"github.com/sec-js/attack-flow/internal/template"
	"github.com/sec-js/attack-flow/internal/theme"
)

const builderTemplates = `
templates:
  - id: anchor_point
    type: anchor
  - id: flow
    type: group
  - id: action
    type: block
    properties:
      name: { type: string, is_representative: true }
      description: { type: string }
    anchors:
      - { position: D0, template: anchor_point }
      - { position: D180, template: anchor_point }
  - id: note
    type: block
    properties:
      text: { type: string, is_representative: true }
`

const builderTheme = `
id: light
name: Light
designs:
  action:
    type: dictionary_block
    style:
      max_width: 240
      horizontal_padding: 8
      vertical_padding: 6
      head_font: { family: Inter, size: 12px }
      field_name_font: { family: Inter, size: 10px }
      field_value_font: { family: Inter, size: 10px }
  note:
    type: text_block
    style:
      head_font: { family: Inter, size: 12px }
  anchor_point:
    type: anchor_point
    style:
      radius: 4
`

func newTestFactory(t *testing.T) *model.Factory {
	t.Helper()
	templates, err := template.Parse([]byte(builderTemplates), "builder.yaml")
	require.NoError(t, err)
	reg, err := template.NewRegistry(templates)
	require.NoError(t, err)
	return model.NewFactory(reg)
}

func newTestBuilder(t *testing.T, src string) *Builder {
	t.Helper()
	cfg, err := theme.ParseConfig([]byte(src))
	require.NoError(t, err)
	return NewBuilder(theme.UnsafeLoad(cfg, theme.DefaultFontStore()), zaptest.NewLogger(t))
}

func TestBuilder_Build(t *testing.T) {
	f := newTestFactory(t)
	b := newTestBuilder(t, builderTheme)

	flow, err := f.NewGroup("flow", nil)
	require.NoError(t, err)
	action, err := f.NewBlock("action", map[string]any{"name": "Spearphishing"})
	require.NoError(t, err)
	note, err := f.NewBlock("note", map[string]any{"text": "Initial access"})
	require.NoError(t, err)
	require.NoError(t, flow.AddObject(action))
	require.NoError(t, flow.AddObject(note))

	v, err := b.Build(flow)
	require.NoError(t, err)
	root, ok := v.(*GroupView)
	require.True(t, ok)
	root.CalculateLayout()

	objects := root.Objects()
	require.Len(t, objects, 2)
	av, ok := objects[0].(*BlockView)
	require.True(t, ok)
	assert.IsType(t, &DictionaryBlock{}, av.BlockFace())
	assert.Equal(t, action.Instance(), av.Instance())
	assert.IsType(t, &TextBlock{}, objects[1].(*BlockView).BlockFace())

	// The model group now holds the views.
	for i, o := range flow.Objects() {
		assert.Same(t, objects[i], o)
	}

	anchors := 0
	for _, a := range av.Anchors() {
		anchors++
		assert.Equal(t, 8.0, a.Face().BoundingBox().Width())
	}
	assert.Equal(t, 2, anchors)
	assert.True(t, av.UserSetPosition())

	var walked []string
	Walk(root, func(v View) { walked = append(walked, v.ID()) })
	assert.Equal(t, []string{"flow", "action", "anchor_point", "anchor_point", "note"}, walked)

	box := av.Face().BoundingBox()
	assert.Greater(t, box.Width(), 0.0)
	assert.LessOrEqual(t, box.Width(), 240.0)
	assert.True(t, root.Face().BoundingBox().Contains(box.XMin, box.YMin))
}

func TestBuilder_Errors(t *testing.T) {
	f := newTestFactory(t)

	noAnchor := newTestBuilder(t, "id: bare\ndesigns:\n  action: { type: dictionary_block, style: { head_font: { family: a, size: 9px }, field_name_font: { family: a, size: 9px }, field_value_font: { family: a, size: 9px } } }\n")
	action, err := f.NewBlock("action", nil)
	require.NoError(t, err)
	_, err = noAnchor.Build(action)
	assert.ErrorIs(t, err, ErrNoDesign)

	mismatch := newTestBuilder(t, "id: odd\ndesigns:\n  note: { type: anchor_point }\n")
	note, err := f.NewBlock("note", nil)
	require.NoError(t, err)
	_, err = mismatch.Build(note)
	assert.ErrorIs(t, err, ErrFaceMismatch)

	b := newTestBuilder(t, builderTheme)
	v, err := b.Build(note)
	require.NoError(t, err)
	_, err = b.Build(v)
	assert.Error(t, err)
}
