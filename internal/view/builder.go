package view

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sec-js/attack-flow/internal/model"
	"github.com/sec-js/attack-flow/internal/theme"
)

var (
	ErrNoDesign     = errors.New("no design for template")
	ErrFaceMismatch = errors.New("design face does not fit object")
)

// Builder creates views for model objects using the designs of a theme.
type Builder struct {
	theme *theme.Theme
	log   *zap.Logger
}

func NewBuilder(t *theme.Theme, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{theme: t, log: log}
}

// Build returns the view of o and, for blocks and groups, of everything
// below it. The result's layout is not computed.
func (b *Builder) Build(o model.DiagramObject) (View, error) {
	switch o := o.(type) {
	case *model.Block:
		return b.BuildBlock(o)
	case *model.Anchor:
		return b.BuildAnchor(o)
	case *model.Group:
		return b.BuildGroup(o)
	case View:
		return nil, fmt.Errorf("%s is already a view", o.Instance())
	}
	return nil, fmt.Errorf("unsupported object %T", o)
}

func (b *Builder) design(templateID string) (*theme.Design, error) {
	d, ok := b.theme.Design(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in theme %s", ErrNoDesign, templateID, b.theme.ID)
	}
	return d, nil
}

// BuildBlock creates the view of blk and of each of its anchors.
func (b *Builder) BuildBlock(blk *model.Block) (*BlockView, error) {
	d, err := b.design(blk.ID())
	if err != nil {
		return nil, err
	}
	var face BlockFace
	switch d.Type {
	case theme.DictionaryBlock:
		face = NewDictionaryBlock(d.Style)
	case theme.TextBlock:
		face = NewTextBlock(d.Style)
	default:
		return nil, fmt.Errorf("%w: block %s uses %s", ErrFaceMismatch, blk.ID(), d.Type)
	}

	v := NewBlockView(blk, face)
	for pos, a := range blk.Anchors() {
		av, err := b.BuildAnchor(a)
		if err != nil {
			return nil, fmt.Errorf("block %s: anchor %s: %w", blk.ID(), pos, err)
		}
		if err := v.AddAnchor(pos, av); err != nil {
			return nil, err
		}
	}
	b.log.Debug("built block view",
		zap.String("template", blk.ID()),
		zap.String("instance", blk.Instance()),
		zap.String("face", string(d.Type)),
		zap.Int("anchors", len(v.positions)),
	)
	return v, nil
}

func (b *Builder) BuildAnchor(a *model.Anchor) (*AnchorView, error) {
	d, err := b.design(a.ID())
	if err != nil {
		return nil, err
	}
	if d.Type != theme.AnchorPoint {
		return nil, fmt.Errorf("%w: anchor %s uses %s", ErrFaceMismatch, a.ID(), d.Type)
	}
	return NewAnchorView(a, NewAnchorPoint(d.Style.Radius)), nil
}

// BuildGroup creates the view of g and of every object in it. Groups without
// a design get a plain group face.
func (b *Builder) BuildGroup(g *model.Group) (*GroupView, error) {
	if d, ok := b.theme.Design(g.ID()); ok && d.Type != theme.GroupFace {
		return nil, fmt.Errorf("%w: group %s uses %s", ErrFaceMismatch, g.ID(), d.Type)
	}
	v := NewGroupView(g, NewGroupFace())
	for _, o := range g.Objects() {
		child, err := b.Build(o)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.ID(), err)
		}
		if err := v.AddObject(child); err != nil {
			return nil, err
		}
	}
	b.log.Debug("built group view",
		zap.String("template", g.ID()),
		zap.String("instance", g.Instance()),
		zap.Int("objects", len(v.children)),
	)
	return v, nil
}
