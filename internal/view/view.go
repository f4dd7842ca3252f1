// Package view binds diagram objects to faces and keeps the geometry of a
// diagram consistent as objects move and their properties change.
//
// Views form a tree: groups contain blocks and other groups, blocks contain
// anchors. Layout is never computed while the tree is assembled; call
// CalculateLayout on the root once it is built. From then on every edit
// reports upward through HandleUpdate, and propagation stops at the first
// view whose geometry did not change.
package view

import "github.com/sec-js/attack-flow/internal/model"

// View is a node of the view tree.
type View interface {
	model.DiagramObject

	// Parent returns the view holding this one, or nil for a root or a
	// detached view.
	Parent() View
	// Face returns the view's geometry.
	Face() Face
	// X returns the horizontal position of the face.
	X() float64
	// Y returns the vertical position of the face.
	Y() float64
	// MoveTo places the view at (x, y) and notifies the parent.
	MoveTo(x, y float64)
	// MoveBy shifts the view by (dx, dy) and notifies the parent.
	MoveBy(dx, dy float64)
	// CalculateLayout lays out the views below this one, then this one.
	CalculateLayout()
	// HandleUpdate recomputes the face and reports reason to the parent
	// only if the face's geometry changed.
	HandleUpdate(reason UpdateReason)
	// GetObjectAt returns the topmost view at (x, y), or nil.
	GetObjectAt(x, y float64) View
	// Overlaps reports whether the face intersects region.
	Overlaps(region BoundingBox) bool

	setParent(p View)
}

// watch makes property changes of v recompute its face.
func watch(v View) {
	v.Properties().Subscribe(v.Instance(), func() {
		v.HandleUpdate(PropUpdate)
	})
}

// attach links v below parent and resumes watching its properties.
func attach(v, parent View) {
	v.setParent(parent)
	watch(v)
}

// detach unlinks v from its parent. A detached view ignores property
// changes until it is attached again.
func detach(v View) {
	v.setParent(nil)
	v.Properties().Unsubscribe(v.Instance())
}

// Walk calls fn for v and every view below it, parents first.
func Walk(v View, fn func(View)) {
	fn(v)
	switch v := v.(type) {
	case *GroupView:
		for _, c := range v.children {
			Walk(c, fn)
		}
	case *BlockView:
		for _, a := range v.Anchors() {
			Walk(a, fn)
		}
	}
}
