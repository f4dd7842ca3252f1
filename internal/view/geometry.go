package view

import (
	"fmt"
	"math"
)

// BoundingBox is an axis-aligned box with a reference point. X and Y are
// the point a face is positioned by; for blocks and anchors it is the
// center.
type BoundingBox struct {
	X, Y       float64
	XMin, YMin float64
	XMax, YMax float64
}

// NewCenteredBox returns a w by h box centered on (x, y).
func NewCenteredBox(x, y, w, h float64) BoundingBox {
	return BoundingBox{
		X: x, Y: y,
		XMin: x - w/2, YMin: y - h/2,
		XMax: x + w/2, YMax: y + h/2,
	}
}

func (b BoundingBox) Width() float64  { return b.XMax - b.XMin }
func (b BoundingBox) Height() float64 { return b.YMax - b.YMin }

// Contains reports whether (x, y) lies inside b, edges included.
func (b BoundingBox) Contains(x, y float64) bool {
	return b.XMin <= x && x <= b.XMax && b.YMin <= y && y <= b.YMax
}

// Overlaps reports whether b and o share any point.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.XMin <= o.XMax && o.XMin <= b.XMax && b.YMin <= o.YMax && o.YMin <= b.YMax
}

// MoveBy translates b.
func (b *BoundingBox) MoveBy(dx, dy float64) {
	b.X += dx
	b.Y += dy
	b.XMin += dx
	b.XMax += dx
	b.YMin += dy
	b.YMax += dy
}

// MoveTo translates b so its reference point lands on (x, y).
func (b *BoundingBox) MoveTo(x, y float64) {
	b.MoveBy(x-b.X, y-b.Y)
}

// Union returns the smallest box containing b and o, keeping b's reference
// point.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	b.XMin = math.Min(b.XMin, o.XMin)
	b.YMin = math.Min(b.YMin, o.YMin)
	b.XMax = math.Max(b.XMax, o.XMax)
	b.YMax = math.Max(b.YMax, o.YMax)
	return b
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%g,%g)[%g,%g %g,%g]", b.X, b.Y, b.XMin, b.YMin, b.XMax, b.YMax)
}

// edgePoint returns where a ray from the center of b, angle degrees
// clockwise from straight up, leaves the box, and whether that point is on
// a vertical edge.
func edgePoint(b BoundingBox, angle float64) (x, y float64, vertical bool) {
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	cx, cy := (b.XMin+b.XMax)/2, (b.YMin+b.YMax)/2
	hw, hh := b.Width()/2, b.Height()/2

	t := math.Inf(1)
	if math.Abs(dx) > 1e-9 {
		t = hw / math.Abs(dx)
	}
	if math.Abs(dy) > 1e-9 {
		if ty := hh / math.Abs(dy); ty < t {
			t = ty
		} else {
			vertical = true
		}
	} else {
		vertical = true
	}
	if math.IsInf(t, 1) {
		return cx, cy, false
	}
	return cx + dx*t, cy + dy*t, vertical
}
