package view

import (
	"fmt"
	"strings"

	"github.com/sec-js/attack-flow/internal/theme"
)

// blockFaceBase is shared by the block faces. It keeps the linked view so
// layout can read properties and place anchors.
type blockFaceBase struct {
	faceBase
	style theme.Style
	view  *BlockView
}

func newBlockFaceBase(kind string, style theme.Style) blockFaceBase {
	if style.HeadFont == nil {
		panic(fmt.Sprintf("view: %s face requires a head font", kind))
	}
	return blockFaceBase{style: style}
}

func (f *blockFaceBase) link(v *BlockView) { f.view = v }

func (f *blockFaceBase) MoveTo(x, y float64) {
	f.MoveBy(x-f.box.X, y-f.box.Y)
}

// MoveBy moves the face and the faces of its anchors.
func (f *blockFaceBase) MoveBy(dx, dy float64) {
	f.box.MoveBy(dx, dy)
	if f.view == nil {
		return
	}
	for _, a := range f.view.Anchors() {
		a.face.MoveBy(dx, dy)
	}
}

func (f *blockFaceBase) GetObjectAt(x, y float64) View {
	if f.view == nil {
		return nil
	}
	for _, a := range f.view.Anchors() {
		if v := a.GetObjectAt(x, y); v != nil {
			return v
		}
	}
	if f.hit(x, y) {
		return f.view
	}
	return nil
}

// resize replaces the box with a w by h box around the current center,
// reports whether the geometry changed and moves the anchors onto the new
// edges.
func (f *blockFaceBase) resize(w, h float64) bool {
	prev := f.box
	f.box = NewCenteredBox(prev.X, prev.Y, w, h)
	if f.view != nil {
		for pos, a := range f.view.Anchors() {
			angle, ok := ParseAnchorAngle(pos)
			if !ok {
				continue
			}
			x, y, vertical := edgePoint(f.box, angle)
			a.face.MoveTo(x, y)
			if vertical {
				a.face.State().Orientation = Horizontal
			} else {
				a.face.State().Orientation = Vertical
			}
		}
	}
	return f.box != prev
}

// DictionaryBlock draws a title followed by one row per visible field.
type DictionaryBlock struct {
	blockFaceBase
}

// NewDictionaryBlock returns an unlinked dictionary face. It panics when the
// style lacks fonts.
func NewDictionaryBlock(style theme.Style) *DictionaryBlock {
	if style.FieldNameFont == nil || style.FieldValueFont == nil {
		panic("view: dictionary block face requires field fonts")
	}
	return &DictionaryBlock{blockFaceBase: newBlockFaceBase("dictionary block", style)}
}

func (f *DictionaryBlock) CloneFace() BlockFace {
	return &DictionaryBlock{blockFaceBase: blockFaceBase{faceBase: f.faceBase, style: f.style}}
}

// Title returns the block's heading.
func (f *DictionaryBlock) Title() string {
	if f.view == nil {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(f.view.ID(), "_", " "))
}

type fieldRow struct {
	name  string
	lines []string
}

// rows returns the visible fields and their wrapped values.
func (f *DictionaryBlock) rows(textWidth float64) []fieldRow {
	if f.view == nil {
		return nil
	}
	var rows []fieldRow
	for id, p := range f.view.Properties().All() {
		if !f.style.Fields.Allows(id) {
			continue
		}
		text := p.String()
		if text == "" {
			continue
		}
		rows = append(rows, fieldRow{name: id, lines: wrapText(f.style.FieldValueFont, text, textWidth)})
	}
	return rows
}

func (f *DictionaryBlock) CalculateLayout() bool {
	s := f.style
	textWidth := 0.0
	if s.MaxWidth > 0 {
		textWidth = s.MaxWidth - 2*s.HorizontalPadding
	}

	title := f.Title()
	content := s.HeadFont.Measure(title)
	height := s.HeadFont.LineHeight
	for _, r := range f.rows(textWidth) {
		content = max(content, s.FieldNameFont.Measure(r.name), widest(s.FieldValueFont, r.lines))
		height += s.FieldSpacing + s.FieldNameFont.LineHeight + float64(len(r.lines))*s.FieldValueFont.LineHeight
	}

	width := content + 2*s.HorizontalPadding
	if s.MaxWidth > 0 {
		width = min(width, s.MaxWidth)
	}
	return f.resize(width, height+2*s.VerticalPadding)
}

// TextBlock draws the block's representative text.
type TextBlock struct {
	blockFaceBase
}

// NewTextBlock returns an unlinked text face. It panics when the style lacks
// a head font.
func NewTextBlock(style theme.Style) *TextBlock {
	return &TextBlock{blockFaceBase: newBlockFaceBase("text block", style)}
}

func (f *TextBlock) CloneFace() BlockFace {
	return &TextBlock{blockFaceBase: blockFaceBase{faceBase: f.faceBase, style: f.style}}
}

// Lines returns the wrapped text.
func (f *TextBlock) Lines() []string {
	if f.view == nil {
		return nil
	}
	width := 0.0
	if f.style.MaxWidth > 0 {
		width = f.style.MaxWidth - 2*f.style.HorizontalPadding
	}
	return wrapText(f.style.HeadFont, f.view.Properties().Representative(), width)
}

func (f *TextBlock) CalculateLayout() bool {
	s := f.style
	lines := f.Lines()
	width := widest(s.HeadFont, lines) + 2*s.HorizontalPadding
	if s.MaxWidth > 0 {
		width = min(width, s.MaxWidth)
	}
	height := float64(max(len(lines), 1))*s.HeadFont.LineHeight + 2*s.VerticalPadding
	return f.resize(width, height)
}
