package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	b := NewCenteredBox(10, 20, 8, 4)
	assert.Equal(t, 8.0, b.Width())
	assert.Equal(t, 4.0, b.Height())
	assert.True(t, b.Contains(6, 18))
	assert.True(t, b.Contains(14, 22))
	assert.False(t, b.Contains(15, 20))

	b.MoveTo(0, 0)
	assert.Equal(t, BoundingBox{X: 0, Y: 0, XMin: -4, YMin: -2, XMax: 4, YMax: 2}, b)
	b.MoveBy(1, 1)
	assert.Equal(t, -3.0, b.XMin)
	assert.Equal(t, 3.0, b.YMax)

	other := NewCenteredBox(10, 0, 4, 4)
	assert.False(t, b.Overlaps(other))
	assert.True(t, b.Overlaps(NewCenteredBox(6, 0, 4, 4)))

	u := b.Union(other)
	assert.Equal(t, b.X, u.X)
	assert.Equal(t, -3.0, u.XMin)
	assert.Equal(t, 12.0, u.XMax)
	assert.Equal(t, -2.0, u.YMin)
}

func TestEdgePoint(t *testing.T) {
	b := NewCenteredBox(0, 0, 20, 10)
	tests := []struct {
		angle    float64
		x, y     float64
		vertical bool
	}{
		{0, 0, -5, false},
		{90, 10, 0, true},
		{180, 0, 5, false},
		{270, -10, 0, true},
		{45, 5, -5, false},
	}
	for _, tt := range tests {
		x, y, vertical := edgePoint(b, tt.angle)
		assert.InDelta(t, tt.x, x, 1e-9, "angle %v", tt.angle)
		assert.InDelta(t, tt.y, y, 1e-9, "angle %v", tt.angle)
		assert.Equal(t, tt.vertical, vertical, "angle %v", tt.angle)
	}
}

func TestParseAnchorAngle(t *testing.T) {
	a, ok := ParseAnchorAngle("D120")
	assert.True(t, ok)
	assert.Equal(t, 120.0, a)

	_, ok = ParseAnchorAngle("top")
	assert.False(t, ok)
	_, ok = ParseAnchorAngle("Dx")
	assert.False(t, ok)
}

func TestStateAttributes(t *testing.T) {
	s := State{
		Alignment:       AlignGrid,
		Orientation:     Vertical,
		Tangibility:     TangibilityPriority,
		UserSetPosition: true,
		Focused:         true,
		Hovered:         HoverDirect,
	}
	got := StateFromAttributes(s.Attributes())
	assert.Equal(t, State{
		Alignment:       AlignGrid,
		Orientation:     Vertical,
		Tangibility:     TangibilityPriority,
		UserSetPosition: true,
	}, got)
	assert.Equal(t, State{}, StateFromAttributes(0))
}

func TestUpdateReasonString(t *testing.T) {
	assert.Equal(t, "none", UpdateReason(0).String())
	assert.Equal(t, "movement|child_added", (Movement | ChildAdded).String())
	assert.True(t, (PropUpdate | LayoutUpdate).Has(LayoutUpdate))
	assert.False(t, PropUpdate.Has(Movement))
}
