package view

import (
	"strconv"
	"strings"

	"github.com/sec-js/attack-flow/internal/theme"
)

// Face is the geometric representation of a view.
type Face interface {
	BoundingBox() BoundingBox
	State() *State
	MoveTo(x, y float64)
	MoveBy(dx, dy float64)
	// CalculateLayout recomputes the face's geometry and reports whether it
	// changed.
	CalculateLayout() bool
	GetObjectAt(x, y float64) View
	Overlaps(region BoundingBox) bool
}

// BlockFace is a face that can be linked to a BlockView.
type BlockFace interface {
	Face
	CloneFace() BlockFace
	link(v *BlockView)
}

// AnchorFace is a face that can be linked to an AnchorView.
type AnchorFace interface {
	Face
	CloneFace() AnchorFace
	link(v *AnchorView)
}

// ContainerFace is a face that can be linked to a GroupView.
type ContainerFace interface {
	Face
	CloneFace() ContainerFace
	link(v *GroupView)
}

// faceBase holds what every face tracks.
type faceBase struct {
	box   BoundingBox
	state State
}

func (f *faceBase) BoundingBox() BoundingBox { return f.box }
func (f *faceBase) State() *State            { return &f.state }

func (f *faceBase) Overlaps(region BoundingBox) bool {
	return f.box.Overlaps(region)
}

// hit reports whether (x, y) selects the face.
func (f *faceBase) hit(x, y float64) bool {
	return f.state.Tangibility != TangibilityNone && f.box.Contains(x, y)
}

// ParseAnchorAngle reads the angle out of an anchor position such as "D90".
func ParseAnchorAngle(position string) (float64, bool) {
	s, ok := strings.CutPrefix(position, "D")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// wrapText breaks text into lines no wider than width. Words longer than
// width sit on a line of their own. A non-positive width disables wrapping.
func wrapText(f *theme.Font, text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var (
		lines []string
		line  = words[0]
	)
	for _, w := range words[1:] {
		next := line + " " + w
		if f.Measure(next) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = next
	}
	return append(lines, line)
}

func widest(f *theme.Font, lines []string) float64 {
	var w float64
	for _, l := range lines {
		w = max(w, f.Measure(l))
	}
	return w
}
