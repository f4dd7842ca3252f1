package view

import (
	"strings"

	"github.com/sec-js/attack-flow/internal/model"
)

// UpdateReason is a bit set describing why a view asks its ancestors to
// recompute their layout.
type UpdateReason uint8

const (
	Movement UpdateReason = 1 << iota
	PropUpdate
	LayoutUpdate
	ChildAdded
	ChildDeleted
)

func (r UpdateReason) Has(flag UpdateReason) bool { return r&flag != 0 }

func (r UpdateReason) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag UpdateReason
		name string
	}{
		{Movement, "movement"},
		{PropUpdate, "prop_update"},
		{LayoutUpdate, "layout_update"},
		{ChildAdded, "child_added"},
		{ChildDeleted, "child_deleted"},
	} {
		if r.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

type Alignment uint8

const (
	AlignFree Alignment = iota
	AlignGrid
)

type Orientation uint8

const (
	OrientationUnknown Orientation = iota
	Horizontal
	Vertical
)

type Tangibility uint8

const (
	TangibilityNormal Tangibility = iota
	TangibilityNone
	TangibilityPriority
)

type Hover uint8

const (
	HoverOff Hover = iota
	HoverDirect
	HoverIndirect
)

// State is the interaction state of a face. Alignment, orientation,
// tangibility and the user-set-position flag persist with the object's
// attributes; focus and hover do not.
type State struct {
	Alignment       Alignment
	Orientation     Orientation
	Tangibility     Tangibility
	UserSetPosition bool
	Focused         bool
	Hovered         Hover
}

// Attribute bit layout.
const (
	alignmentShift   = 0
	orientationShift = 2
	tangibilityShift = 4
	userSetBit       = 1 << 6
	twoBits          = 0b11
)

// Attributes packs the persistent part of s.
func (s State) Attributes() model.Attributes {
	a := model.Attributes(s.Alignment&twoBits)<<alignmentShift |
		model.Attributes(s.Orientation&twoBits)<<orientationShift |
		model.Attributes(s.Tangibility&twoBits)<<tangibilityShift
	if s.UserSetPosition {
		a |= userSetBit
	}
	return a
}

// StateFromAttributes unpacks attributes; focus and hover start cleared.
func StateFromAttributes(a model.Attributes) State {
	return State{
		Alignment:       Alignment(a >> alignmentShift & twoBits),
		Orientation:     Orientation(a >> orientationShift & twoBits),
		Tangibility:     Tangibility(a >> tangibilityShift & twoBits),
		UserSetPosition: a&userSetBit != 0,
	}
}
