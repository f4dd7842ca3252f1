package view

import (
	"fmt"

	"github.com/sec-js/attack-flow/internal/model"
)

// AnchorView is the view of an anchor. Its parent is the block view it is
// attached to.
type AnchorView struct {
	*model.Anchor
	face   AnchorFace
	parent View
}

func NewAnchorView(a *model.Anchor, face AnchorFace) *AnchorView {
	if face == nil {
		panic(fmt.Sprintf("view: anchor %s created without a face", a.Instance()))
	}
	v := &AnchorView{Anchor: a}
	*face.State() = StateFromAttributes(a.Attributes())
	face.link(v)
	v.face = face
	watch(v)
	return v
}

func (v *AnchorView) Face() Face       { return v.face }
func (v *AnchorView) Parent() View     { return v.parent }
func (v *AnchorView) setParent(p View) { v.parent = p }
func (v *AnchorView) X() float64       { return v.face.BoundingBox().X }
func (v *AnchorView) Y() float64       { return v.face.BoundingBox().Y }

func (v *AnchorView) Attributes() model.Attributes { return v.face.State().Attributes() }

func (v *AnchorView) MoveTo(x, y float64) {
	v.face.MoveTo(x, y)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

func (v *AnchorView) MoveBy(dx, dy float64) {
	v.face.MoveBy(dx, dy)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

func (v *AnchorView) CalculateLayout() {
	v.face.CalculateLayout()
}

func (v *AnchorView) HandleUpdate(reason UpdateReason) {
	if v.face.CalculateLayout() && v.parent != nil {
		v.parent.HandleUpdate(reason)
	}
}

func (v *AnchorView) GetObjectAt(x, y float64) View {
	return v.face.GetObjectAt(x, y)
}

func (v *AnchorView) Overlaps(region BoundingBox) bool {
	return v.face.Overlaps(region)
}

// Clone returns a detached copy of the anchor view.
func (v *AnchorView) Clone(instance string, instanceMap map[string]string) *AnchorView {
	c := v.IsolatedClone(instance)
	if instanceMap != nil {
		instanceMap[v.Instance()] = c.Instance()
	}
	return c
}

func (v *AnchorView) IsolatedClone(instance string) *AnchorView {
	a := v.Anchor.IsolatedClone(instance)
	a.SetAttributes(v.Attributes())
	return NewAnchorView(a, v.face.CloneFace())
}
