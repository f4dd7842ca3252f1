package view

import (
	"fmt"
	"iter"

	"github.com/sec-js/attack-flow/internal/model"
)

// BlockView is the view of a block.
type BlockView struct {
	*model.Block
	face      BlockFace
	parent    View
	positions []string
	anchors   map[string]*AnchorView
}

// NewBlockView links face to a view of b. The view starts with no anchor
// views even if b has anchors; add them with AddAnchor. Property changes
// anywhere in b's tree recompute the face.
func NewBlockView(b *model.Block, face BlockFace) *BlockView {
	if face == nil {
		panic(fmt.Sprintf("view: block %s created without a face", b.Instance()))
	}
	v := &BlockView{Block: b, anchors: make(map[string]*AnchorView)}
	*face.State() = StateFromAttributes(b.Attributes())
	v.ReplaceFace(face)
	v.face.State().UserSetPosition = true
	watch(v)
	return v
}

// ReplaceFace links face to the view in place of the current one.
func (v *BlockView) ReplaceFace(face BlockFace) {
	face.link(v)
	v.face = face
}

func (v *BlockView) Face() Face           { return v.face }
func (v *BlockView) BlockFace() BlockFace { return v.face }
func (v *BlockView) Parent() View         { return v.parent }
func (v *BlockView) setParent(p View)     { v.parent = p }

// Attributes packs the face's persistent state.
func (v *BlockView) Attributes() model.Attributes { return v.face.State().Attributes() }

func (v *BlockView) X() float64 { return v.face.BoundingBox().X }
func (v *BlockView) Y() float64 { return v.face.BoundingBox().Y }

func (v *BlockView) Alignment() Alignment           { return v.face.State().Alignment }
func (v *BlockView) SetAlignment(a Alignment)       { v.face.State().Alignment = a }
func (v *BlockView) Orientation() Orientation       { return v.face.State().Orientation }
func (v *BlockView) SetOrientation(o Orientation)   { v.face.State().Orientation = o }
func (v *BlockView) Focused() bool                  { return v.face.State().Focused }
func (v *BlockView) SetFocused(f bool)              { v.face.State().Focused = f }
func (v *BlockView) Hovered() Hover                 { return v.face.State().Hovered }
func (v *BlockView) SetHovered(h Hover)             { v.face.State().Hovered = h }
func (v *BlockView) Tangibility() Tangibility       { return v.face.State().Tangibility }
func (v *BlockView) SetTangibility(t Tangibility)   { v.face.State().Tangibility = t }
func (v *BlockView) UserSetPosition() bool          { return v.face.State().UserSetPosition }
func (v *BlockView) SetUserSetPosition(set bool)    { v.face.State().UserSetPosition = set }

// Anchors iterates the anchor views by position in the order they were added.
func (v *BlockView) Anchors() iter.Seq2[string, *AnchorView] {
	return func(yield func(string, *AnchorView) bool) {
		for _, pos := range v.positions {
			if !yield(pos, v.anchors[pos]) {
				return
			}
		}
	}
}

// Anchor returns the anchor view at position.
func (v *BlockView) Anchor(position string) (*AnchorView, bool) {
	a, ok := v.anchors[position]
	return a, ok
}

// AddAnchor attaches a at position. An anchor already attached to the
// underlying block at that position is adopted as is. Layout is not
// recomputed.
func (v *BlockView) AddAnchor(position string, a *AnchorView) error {
	if _, ok := v.anchors[position]; ok {
		return fmt.Errorf("%w: %s", model.ErrAnchorExists, position)
	}
	if existing, ok := v.Block.Anchor(position); !ok || existing != a.Anchor {
		if err := v.Block.AddAnchor(position, a.Anchor); err != nil {
			return err
		}
	}
	attach(a, v)
	v.anchors[position] = a
	v.positions = append(v.positions, position)
	return nil
}

// RemoveAnchor detaches the anchor view at position. Removing an empty
// position is a no-op.
func (v *BlockView) RemoveAnchor(position string) *AnchorView {
	a, ok := v.anchors[position]
	if !ok {
		return nil
	}
	v.Block.RemoveAnchor(position)
	delete(v.anchors, position)
	for i, p := range v.positions {
		if p == position {
			v.positions = append(v.positions[:i], v.positions[i+1:]...)
			break
		}
	}
	detach(a)
	return a
}

// GetObjectAt returns the topmost view at (x, y), or nil.
func (v *BlockView) GetObjectAt(x, y float64) View {
	return v.face.GetObjectAt(x, y)
}

// MoveTo moves the view and asks the parent to recompute its layout.
func (v *BlockView) MoveTo(x, y float64) {
	v.face.MoveTo(x, y)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

// MoveBy moves the view relative to its position and asks the parent to
// recompute its layout.
func (v *BlockView) MoveBy(dx, dy float64) {
	v.face.MoveBy(dx, dy)
	if v.parent != nil {
		v.parent.HandleUpdate(Movement)
	}
}

// CalculateLayout lays out the anchors and then the block itself.
func (v *BlockView) CalculateLayout() {
	for _, a := range v.Anchors() {
		a.CalculateLayout()
	}
	v.face.CalculateLayout()
}

// HandleUpdate recomputes the face and forwards reason to the parent only
// when the face's geometry changed.
func (v *BlockView) HandleUpdate(reason UpdateReason) {
	if v.face.CalculateLayout() && v.parent != nil {
		v.parent.HandleUpdate(reason)
	}
}

func (v *BlockView) Overlaps(region BoundingBox) bool {
	return v.face.Overlaps(region)
}

// Clone returns an independent copy of the view and its anchors positioned
// where v is now. An empty instance draws a random one. When instanceMap is
// not nil it receives an original to clone instance id entry for every
// copied view.
func (v *BlockView) Clone(instance string, instanceMap map[string]string) *BlockView {
	c := v.IsolatedClone(instance)
	for pos, a := range v.Anchors() {
		// Positions are unique in v and c has no anchors yet.
		_ = c.AddAnchor(pos, a.Clone("", instanceMap))
	}
	c.face.CalculateLayout()
	c.MoveTo(v.X(), v.Y())
	if instanceMap != nil {
		instanceMap[v.Instance()] = c.Instance()
	}
	return c
}

// IsolatedClone returns a copy of the view without anchors.
func (v *BlockView) IsolatedClone(instance string) *BlockView {
	b := v.Block.IsolatedClone(instance)
	b.SetAttributes(v.Attributes())
	return NewBlockView(b, v.face.CloneFace())
}
