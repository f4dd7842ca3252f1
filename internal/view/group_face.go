package view

// GroupFace spans the union of its group's children. An empty group has a
// zero-sized box at its reference point.
type GroupFace struct {
	faceBase
	view *GroupView
}

func NewGroupFace() *GroupFace {
	return &GroupFace{}
}

func (f *GroupFace) link(v *GroupView) { f.view = v }

func (f *GroupFace) CloneFace() ContainerFace {
	return &GroupFace{faceBase: f.faceBase}
}

// MoveTo moves the group's children so the reference point lands on (x, y).
func (f *GroupFace) MoveTo(x, y float64) {
	f.MoveBy(x-f.box.X, y-f.box.Y)
}

// MoveBy moves the box and every child face.
func (f *GroupFace) MoveBy(dx, dy float64) {
	f.box.MoveBy(dx, dy)
	if f.view == nil {
		return
	}
	for _, c := range f.view.children {
		c.Face().MoveBy(dx, dy)
	}
}

func (f *GroupFace) CalculateLayout() bool {
	prev := f.box
	box := BoundingBox{X: prev.X, Y: prev.Y, XMin: prev.X, YMin: prev.Y, XMax: prev.X, YMax: prev.Y}
	if f.view != nil && len(f.view.children) > 0 {
		box = f.view.children[0].Face().BoundingBox()
		for _, c := range f.view.children[1:] {
			box = box.Union(c.Face().BoundingBox())
		}
		box.X, box.Y = prev.X, prev.Y
	}
	f.box = box
	return f.box != prev
}

// GetObjectAt returns the topmost child at (x, y). Children added later sit
// above earlier ones.
func (f *GroupFace) GetObjectAt(x, y float64) View {
	if f.view == nil {
		return nil
	}
	for i := len(f.view.children) - 1; i >= 0; i-- {
		if v := f.view.children[i].GetObjectAt(x, y); v != nil {
			return v
		}
	}
	return nil
}
