package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sec-js/attack-flow/internal/model"
	"github.com/sec-js/attack-flow/internal/property"
	"github.com/sec-js/attack-flow/internal/schema"
	"github.com/sec-js/attack-flow/internal/theme"
)

const blockSchema = `
name:
  type: string
  is_representative: true
notes:
  type: string
`

var testFont = &theme.Font{Family: "mono", Size: 10, CharWidth: 6, LineHeight: 12}

func testStyle() theme.Style {
	return theme.Style{
		HorizontalPadding: 10,
		VerticalPadding:   5,
		FieldSpacing:      2,
		HeadFont:          testFont,
		FieldNameFont:     testFont,
		FieldValueFont:    testFont,
		Fields:            theme.Enumeration{Exclude: map[string]struct{}{"notes": {}}},
	}
}

// countingFace counts layout computations of a group.
type countingFace struct {
	ContainerFace
	layouts int
}

func (f *countingFace) CalculateLayout() bool {
	f.layouts++
	return f.ContainerFace.CalculateLayout()
}

// countingAnchorFace counts layout computations of an anchor.
type countingAnchorFace struct {
	AnchorFace
	layouts int
}

func (f *countingAnchorFace) CalculateLayout() bool {
	f.layouts++
	return f.AnchorFace.CalculateLayout()
}

func newBlockView(t *testing.T, name string, anchors ...string) *BlockView {
	t.Helper()
	root, err := schema.ParseRoot([]byte(blockSchema))
	require.NoError(t, err)
	props, err := property.NewRoot(root, map[string]any{"name": name})
	require.NoError(t, err)
	v := NewBlockView(model.NewBlock("action", "", 0, props), NewDictionaryBlock(testStyle()))
	for _, pos := range anchors {
		a := model.NewAnchor("anchor_point", "", 0, property.NewRootProperty(schema.Root{}))
		require.NoError(t, v.AddAnchor(pos, NewAnchorView(a, NewAnchorPoint(5))))
	}
	return v
}

func newGroupView(t *testing.T, id string) (*GroupView, *countingFace) {
	t.Helper()
	face := &countingFace{ContainerFace: NewGroupFace()}
	g := model.NewGroup(id, "", 0, property.NewRootProperty(schema.Root{}))
	return NewGroupView(g, face), face
}

func setName(t *testing.T, v *BlockView, field, value string) {
	t.Helper()
	p, ok := v.Properties().Get(field)
	require.True(t, ok)
	p.(*property.StringProperty).Set(value)
}

// chain builds root -> a -> b -> c.
func chain(t *testing.T) (c *BlockView, faces [3]*countingFace) {
	t.Helper()
	root, rootFace := newGroupView(t, "canvas")
	a, aFace := newGroupView(t, "group")
	b, bFace := newGroupView(t, "group")
	c = newBlockView(t, "x")
	require.NoError(t, root.AddObject(a))
	require.NoError(t, a.AddObject(b))
	require.NoError(t, b.AddObject(c))
	root.CalculateLayout()
	return c, [3]*countingFace{rootFace, aFace, bFace}
}

func resetCounts(faces [3]*countingFace) {
	for _, f := range faces {
		f.layouts = 0
	}
}

func counts(faces [3]*countingFace) [3]int {
	return [3]int{faces[0].layouts, faces[1].layouts, faces[2].layouts}
}

func TestHandleUpdate_StopsWhenGeometryUnchanged(t *testing.T) {
	c, faces := chain(t)
	resetCounts(faces)
	before := c.Face().BoundingBox()

	// Hidden field: the face is recomputed but keeps its geometry.
	setName(t, c, "notes", "not drawn")
	assert.Equal(t, before, c.Face().BoundingBox())
	assert.Equal(t, [3]int{0, 0, 0}, counts(faces))

	c.HandleUpdate(LayoutUpdate)
	assert.Equal(t, [3]int{0, 0, 0}, counts(faces))
}

func TestHandleUpdate_PropagatesGeometryChanges(t *testing.T) {
	c, faces := chain(t)
	resetCounts(faces)
	before := c.Face().BoundingBox()

	setName(t, c, "name", "a considerably longer name")
	assert.Greater(t, c.Face().BoundingBox().Width(), before.Width())
	assert.Equal(t, [3]int{1, 1, 1}, counts(faces))

	setName(t, c, "name", "an even more considerably longer name")
	assert.Equal(t, [3]int{2, 2, 2}, counts(faces))

	assert.Equal(t, c.Face().BoundingBox().Width(), c.Parent().Face().BoundingBox().Width())
}

func TestMove_AlwaysNotifiesParent(t *testing.T) {
	c, faces := chain(t)
	resetCounts(faces)

	c.MoveBy(0, 0)
	assert.Equal(t, [3]int{0, 0, 1}, counts(faces))

	c.MoveTo(40, 30)
	assert.Equal(t, [3]int{1, 1, 2}, counts(faces))
	assert.Equal(t, 40.0, c.X())
	assert.Equal(t, 30.0, c.Y())
	assert.True(t, c.Parent().Face().BoundingBox().Contains(40, 30))
}

func TestCalculateLayout_PlacesAnchorsOnEdges(t *testing.T) {
	v := newBlockView(t, "x", "D0", "D90", "D180", "D270")
	v.CalculateLayout()
	v.MoveTo(100, 50)
	box := v.Face().BoundingBox()

	want := map[string][2]float64{
		"D0":   {100, box.YMin},
		"D90":  {box.XMax, 50},
		"D180": {100, box.YMax},
		"D270": {box.XMin, 50},
	}
	for pos, a := range v.Anchors() {
		assert.InDelta(t, want[pos][0], a.X(), 1e-9, pos)
		assert.InDelta(t, want[pos][1], a.Y(), 1e-9, pos)
		assert.Same(t, v, a.Parent())
	}

	top, _ := v.Anchor("D0")
	right, _ := v.Anchor("D90")
	assert.Equal(t, Vertical, top.Face().State().Orientation)
	assert.Equal(t, Horizontal, right.Face().State().Orientation)

	setName(t, v, "name", "a considerably longer name")
	assert.InDelta(t, v.Face().BoundingBox().XMax, right.X(), 1e-9)
}

func TestClone(t *testing.T) {
	v := newBlockView(t, "x", "D0", "D90")
	v.CalculateLayout()
	v.MoveTo(100, 50)
	v.SetTangibility(TangibilityPriority)

	instances := map[string]string{}
	c := v.Clone("", instances)

	assert.NotEqual(t, v.Instance(), c.Instance())
	assert.Equal(t, c.Instance(), instances[v.Instance()])
	assert.Len(t, instances, 3)
	assert.Nil(t, c.Parent())
	assert.Equal(t, v.X(), c.X())
	assert.Equal(t, v.Y(), c.Y())
	assert.Equal(t, v.Face().BoundingBox(), c.Face().BoundingBox())
	assert.Equal(t, TangibilityPriority, c.Tangibility())
	assert.True(t, c.UserSetPosition())

	for pos, a := range v.Anchors() {
		ca, ok := c.Anchor(pos)
		require.True(t, ok)
		assert.Same(t, c, ca.Parent())
		assert.Equal(t, ca.Instance(), instances[a.Instance()])
		assert.InDelta(t, a.X(), ca.X(), 1e-9)
		assert.InDelta(t, a.Y(), ca.Y(), 1e-9)
		ma, ok := c.Block.Anchor(pos)
		require.True(t, ok)
		assert.Same(t, ca.Anchor, ma)
	}

	original := v.Properties().ToJSON()
	width := v.Face().BoundingBox().Width()
	setName(t, c, "name", "a considerably longer name")
	assert.Equal(t, original, v.Properties().ToJSON())
	assert.Equal(t, width, v.Face().BoundingBox().Width())
	assert.Greater(t, c.Face().BoundingBox().Width(), width)

	iso := v.IsolatedClone("fixed")
	assert.Equal(t, "fixed", iso.Instance())
	assert.Empty(t, iso.Positions())
}

func TestGroupClone(t *testing.T) {
	root, _ := newGroupView(t, "canvas")
	b1 := newBlockView(t, "one", "D0")
	b2 := newBlockView(t, "two")
	require.NoError(t, root.AddObject(b1))
	require.NoError(t, root.AddObject(b2))
	root.CalculateLayout()
	b2.MoveTo(200, 0)

	instances := map[string]string{}
	c := root.Clone("", instances)
	assert.Len(t, instances, 4)
	require.Len(t, c.Objects(), 2)
	assert.Equal(t, root.Face().BoundingBox(), c.Face().BoundingBox())
	for _, child := range c.Objects() {
		assert.Same(t, c, child.Parent())
	}
	assert.Len(t, c.Group.Objects(), 2)
}

func TestGetObjectAt(t *testing.T) {
	root, _ := newGroupView(t, "canvas")
	b1 := newBlockView(t, "one", "D0")
	b2 := newBlockView(t, "two")
	require.NoError(t, root.AddObject(b1))
	require.NoError(t, root.AddObject(b2))
	root.CalculateLayout()
	b1.MoveTo(0, 0)
	b2.MoveTo(10, 10)

	// b2 was added last and sits on top.
	assert.Same(t, b2, root.GetObjectAt(5, 0))
	assert.Same(t, b1, root.GetObjectAt(-25, 0))

	top, _ := b1.Anchor("D0")
	assert.Same(t, top, root.GetObjectAt(top.X(), top.Y()))

	assert.Nil(t, root.GetObjectAt(1e6, 1e6))

	b2.SetTangibility(TangibilityNone)
	assert.Same(t, b1, root.GetObjectAt(5, 0))
}

func TestOverlaps(t *testing.T) {
	v := newBlockView(t, "x")
	v.CalculateLayout()
	v.MoveTo(0, 0)
	assert.True(t, v.Overlaps(NewCenteredBox(0, 0, 1, 1)))
	assert.True(t, v.Overlaps(NewCenteredBox(-1000, -1000, 10000, 10000)))
	assert.False(t, v.Overlaps(NewCenteredBox(500, 500, 10, 10)))
}

func TestInsertAndRemoveObject(t *testing.T) {
	root, rootFace := newGroupView(t, "canvas")
	b1 := newBlockView(t, "one")
	require.NoError(t, root.AddObject(b1))
	root.CalculateLayout()
	rootFace.layouts = 0

	b2 := newBlockView(t, "two")
	b2.Face().MoveTo(300, 0)
	require.NoError(t, root.InsertObject(b2))
	assert.Equal(t, 1, rootFace.layouts)
	assert.True(t, root.Face().BoundingBox().Contains(300, 0))
	assert.Error(t, root.AddObject(b2))

	assert.Nil(t, root.RemoveObject("nope"))
	assert.Same(t, b2, root.RemoveObject(b2.Instance()))
	assert.Nil(t, b2.Parent())
	assert.False(t, root.Face().BoundingBox().Contains(300, 0))
	assert.Equal(t, []View{b1}, root.Objects())
}

func TestRemoveAnchor(t *testing.T) {
	v := newBlockView(t, "x", "D0", "D90")
	a := v.RemoveAnchor("D0")
	require.NotNil(t, a)
	assert.Nil(t, a.Parent())
	assert.Nil(t, v.RemoveAnchor("D0"))
	assert.Equal(t, []string{"D90"}, v.Positions())
	assert.Error(t, v.AddAnchor("D90", a))
}

func TestDetachedViewsIgnorePropertyChanges(t *testing.T) {
	root, rootFace := newGroupView(t, "canvas")
	b := newBlockView(t, "short", "D0")
	require.NoError(t, root.InsertObject(b))

	require.Same(t, b, root.RemoveObject(b.Instance()))
	rootFace.layouts = 0
	detached := b.Face().BoundingBox()
	setName(t, b, "name", "a considerably longer name")
	assert.Equal(t, detached, b.Face().BoundingBox())
	assert.Zero(t, rootFace.layouts)

	// Attaching again resumes updates.
	require.NoError(t, root.InsertObject(b))
	grown := b.Face().BoundingBox()
	assert.Greater(t, grown.Width(), detached.Width())
	setName(t, b, "name", "an even more considerably longer name")
	assert.Greater(t, b.Face().BoundingBox().Width(), grown.Width())

	// Same for anchors taken off a block.
	face := &countingAnchorFace{AnchorFace: NewAnchorPoint(5)}
	a := NewAnchorView(model.NewAnchor("anchor_point", "", 0, property.NewRootProperty(schema.Root{})), face)
	require.NoError(t, b.AddAnchor("D90", a))
	a.Properties().UpdateParent()
	assert.Equal(t, 1, face.layouts)

	require.Same(t, a, b.RemoveAnchor("D90"))
	a.Properties().UpdateParent()
	assert.Equal(t, 1, face.layouts)
}

func TestTextBlockWraps(t *testing.T) {
	root, err := schema.ParseRoot([]byte(blockSchema))
	require.NoError(t, err)
	props, err := property.NewRoot(root, map[string]any{"name": "alpha beta gamma delta"})
	require.NoError(t, err)

	style := testStyle()
	style.MaxWidth = 100
	face := NewTextBlock(style)
	v := NewBlockView(model.NewBlock("note", "", 0, props), face)
	v.CalculateLayout()

	assert.Equal(t, []string{"alpha beta", "gamma delta"}, face.Lines())
	box := v.Face().BoundingBox()
	assert.Equal(t, 2*12.0+2*5, box.Height())
	assert.Equal(t, 11*6.0+2*10, box.Width())
}

func TestNewFacePanicsWithoutFonts(t *testing.T) {
	assert.Panics(t, func() { NewDictionaryBlock(theme.Style{}) })
	assert.Panics(t, func() { NewTextBlock(theme.Style{}) })
}
