package view

import (
	"fmt"

	"github.com/sec-js/attack-flow/internal/model"
)

// GroupView is the view of a group. A diagram's root is a group view.
type GroupView struct {
	*model.Group
	face     ContainerFace
	parent   View
	children []View
}

func NewGroupView(g *model.Group, face ContainerFace) *GroupView {
	if face == nil {
		panic(fmt.Sprintf("view: group %s created without a face", g.Instance()))
	}
	v := &GroupView{Group: g}
	*face.State() = StateFromAttributes(g.Attributes())
	face.link(v)
	v.face = face
	watch(v)
	return v
}

func (v *GroupView) Face() Face       { return v.face }
func (v *GroupView) Parent() View     { return v.parent }
func (v *GroupView) setParent(p View) { v.parent = p }
func (v *GroupView) X() float64       { return v.face.BoundingBox().X }
func (v *GroupView) Y() float64       { return v.face.BoundingBox().Y }

func (v *GroupView) Attributes() model.Attributes { return v.face.State().Attributes() }

// Objects returns the child views in drawing order.
func (v *GroupView) Objects() []View {
	return append([]View(nil), v.children...)
}

// AddObject appends child without recomputing layout. A child already held
// by the underlying group is adopted as is.
func (v *GroupView) AddObject(child View) error {
	if child.Parent() != nil {
		return fmt.Errorf("view %s already has a parent", child.Instance())
	}
	if !v.Group.ReplaceObject(child) {
		if err := v.Group.AddObject(child); err != nil {
			return err
		}
	}
	attach(child, v)
	v.children = append(v.children, child)
	return nil
}

// InsertObject adds child, lays it out and updates the group's layout.
func (v *GroupView) InsertObject(child View) error {
	if err := v.AddObject(child); err != nil {
		return err
	}
	child.CalculateLayout()
	v.HandleUpdate(ChildAdded)
	return nil
}

// RemoveObject detaches the child with the given instance id and updates
// the group's layout. Unknown ids are ignored.
func (v *GroupView) RemoveObject(instance string) View {
	for i, c := range v.children {
		if c.Instance() != instance {
			continue
		}
		v.children = append(v.children[:i], v.children[i+1:]...)
		v.Group.RemoveObject(instance)
		detach(c)
		v.HandleUpdate(ChildDeleted)
		return c
	}
	return nil
}

// MoveTo moves the group and its children.
func (v *GroupView) MoveTo(x, y float64) {
	v.face.MoveTo(x, y)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

func (v *GroupView) MoveBy(dx, dy float64) {
	v.face.MoveBy(dx, dy)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

// CalculateLayout lays out every child and then the group.
func (v *GroupView) CalculateLayout() {
	for _, c := range v.children {
		c.CalculateLayout()
	}
	v.face.CalculateLayout()
}

// HandleUpdate recomputes the group's bounds and forwards reason to the
// parent only when they changed.
func (v *GroupView) HandleUpdate(reason UpdateReason) {
	if v.face.CalculateLayout() && v.parent != nil {
		v.parent.HandleUpdate(reason)
	}
}

func (v *GroupView) GetObjectAt(x, y float64) View {
	return v.face.GetObjectAt(x, y)
}

func (v *GroupView) Overlaps(region BoundingBox) bool {
	return v.face.Overlaps(region)
}

// Clone returns an independent copy of the group and everything below it.
func (v *GroupView) Clone(instance string, instanceMap map[string]string) *GroupView {
	c := v.IsolatedClone(instance)
	for _, child := range v.children {
		var cc View
		switch child := child.(type) {
		case *BlockView:
			cc = child.Clone("", instanceMap)
		case *GroupView:
			cc = child.Clone("", instanceMap)
		case *AnchorView:
			cc = child.Clone("", instanceMap)
		default:
			panic(fmt.Sprintf("view: cannot clone %T", child))
		}
		// cc is fresh and c started empty.
		_ = c.AddObject(cc)
	}
	c.face.CalculateLayout()
	if instanceMap != nil {
		instanceMap[v.Instance()] = c.Instance()
	}
	return c
}

// IsolatedClone returns a copy of the group without children.
func (v *GroupView) IsolatedClone(instance string) *GroupView {
	g := v.Group.IsolatedClone(instance)
	g.SetAttributes(v.Attributes())
	return NewGroupView(g, v.face.CloneFace())
}
