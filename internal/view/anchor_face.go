package view

// AnchorPoint is a square connection point of fixed radius.
type AnchorPoint struct {
	faceBase
	radius float64
	view   *AnchorView
}

func NewAnchorPoint(radius float64) *AnchorPoint {
	f := &AnchorPoint{radius: radius}
	f.box = NewCenteredBox(0, 0, 2*radius, 2*radius)
	return f
}

func (f *AnchorPoint) link(v *AnchorView) { f.view = v }

func (f *AnchorPoint) CloneFace() AnchorFace {
	return &AnchorPoint{faceBase: f.faceBase, radius: f.radius}
}

func (f *AnchorPoint) MoveTo(x, y float64)    { f.box.MoveTo(x, y) }
func (f *AnchorPoint) MoveBy(dx, dy float64) { f.box.MoveBy(dx, dy) }

func (f *AnchorPoint) CalculateLayout() bool {
	prev := f.box
	f.box = NewCenteredBox(prev.X, prev.Y, 2*f.radius, 2*f.radius)
	return f.box != prev
}

func (f *AnchorPoint) GetObjectAt(x, y float64) View {
	if f.view != nil && f.hit(x, y) {
		return f.view
	}
	return nil
}
