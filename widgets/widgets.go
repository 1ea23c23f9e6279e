// Package widgets provides the composable building blocks layered over the
// composition runtime: text labels, flex rows and columns, boxes, clickable
// regions, editable text fields, and a virtualized lazy column. Each widget
// emits layout nodes through a Composer and wires input behavior through
// modifier elements, so callers describe the tree declaratively and the
// runtime keeps it incremental.
package widgets

import (
	"github.com/agiangrant/reflow/compose"
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/input"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
	"github.com/agiangrant/reflow/render"
	"github.com/agiangrant/reflow/text"
)

// FlexOptions configures a Row or Column.
type FlexOptions struct {
	Arrangement layout.Arrangement
	Spacing     float32

	// CrossAlign positions children across the main axis: 0 start,
	// 0.5 center, 1 end.
	CrossAlign float32

	Modifiers []modifier.Element
}

// Row lays its content out horizontally.
func Row(c *compose.Composer, opts FlexOptions, content func()) *layout.Node {
	return flex(c, layout.Horizontal, opts, content)
}

// Column lays its content out vertically.
func Column(c *compose.Composer, opts FlexOptions, content func()) *layout.Node {
	return flex(c, layout.Vertical, opts, content)
}

func flex(c *compose.Composer, axis layout.Axis, opts FlexOptions, content func()) *layout.Node {
	arrangement := opts.Arrangement
	if opts.Spacing > 0 && arrangement == layout.ArrangeStart {
		arrangement = layout.ArrangeSpaced
	}
	policy := layout.FlexPolicy{
		Axis:        axis,
		Arrangement: arrangement,
		Spacing:     opts.Spacing,
		CrossAlign:  opts.CrossAlign,
	}
	return c.EmitContainer(policy, func(n *layout.Node) {
		n.SetModifiers(opts.Modifiers)
	}, content)
}

// BoxOptions configures a Box.
type BoxOptions struct {
	Alignment               layout.Alignment
	PropagateMinConstraints bool
	Modifiers               []modifier.Element
}

// Box stacks its content, aligning each child inside the box bounds.
func Box(c *compose.Composer, opts BoxOptions, content func()) *layout.Node {
	policy := layout.BoxPolicy{
		Alignment:               opts.Alignment,
		PropagateMinConstraints: opts.PropagateMinConstraints,
	}
	return c.EmitContainer(policy, func(n *layout.Node) {
		n.SetModifiers(opts.Modifiers)
	}, content)
}

// Spacer emits an empty leaf of a fixed size.
func Spacer(c *compose.Composer, width, height float32) *layout.Node {
	return c.EmitNode(layout.LeafPolicy{Width: width, Height: height}, func(n *layout.Node) {
		n.SetModifiers(nil)
	})
}

// Keyed runs body inside a group keyed by value, so loop items and
// conditional branches keep their identity when reordered or swapped.
func Keyed(c *compose.Composer, value any, body func()) {
	c.WithGroup(compose.CallerKey(1).WithUser(value), body)
}

// If composes exactly one of two branches, each under its own group, so
// switching branches discards the other subtree instead of misreading its
// slots positionally. elseBody may be nil.
func If(c *compose.Composer, cond bool, body, elseBody func()) {
	site := compose.CallerKey(1)
	if cond {
		c.WithGroup(site.WithUser(true), body)
		return
	}
	c.WithGroup(site.WithUser(false), func() {
		if elseBody != nil {
			elseBody()
		}
	})
}

// TextOptions styles a text label.
type TextOptions struct {
	Color     render.Color
	Scale     float32
	Modifiers []modifier.Element
}

// Text emits a label sized by the active text measurer.
func Text(c *compose.Composer, content string) *layout.Node {
	return StyledText(c, content, TextOptions{})
}

// StyledText emits a label with explicit styling.
func StyledText(c *compose.Composer, content string, opts TextOptions) *layout.Node {
	color := opts.Color
	if color == render.Transparent {
		color = render.Black
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	m := text.ActiveMeasurer().Measure(content)
	mods := make([]modifier.Element, 0, 1+len(opts.Modifiers))
	mods = append(mods, LabelElement{Text: content, Color: color, Scale: scale})
	mods = append(mods, opts.Modifiers...)
	return c.EmitNode(layout.LeafPolicy{Width: m.Width * scale, Height: m.Height * scale}, func(n *layout.Node) {
		n.SetModifiers(mods)
	})
}

// ClickOptions configures a Clickable region.
type ClickOptions struct {
	Label     string
	Disabled  bool
	Modifiers []modifier.Element
}

// Clickable wraps content in a box that fires onClick on a completed press.
func Clickable(c *compose.Composer, onClick event.ClickHandler, opts ClickOptions, content func()) *layout.Node {
	mods := make([]modifier.Element, 0, 1+len(opts.Modifiers))
	mods = append(mods, input.ClickableElement{
		OnClick:      onClick,
		OnClickLabel: opts.Label,
		Enabled:      !opts.Disabled,
	})
	mods = append(mods, opts.Modifiers...)
	return c.EmitContainer(layout.BoxPolicy{}, func(n *layout.Node) {
		n.SetModifiers(mods)
	}, content)
}

// LabelElement draws a text run at the node's content origin.
type LabelElement struct {
	Text  string
	Color render.Color
	Scale float32
}

func (e LabelElement) Capabilities() modifier.Capabilities { return modifier.CapDraw }

func (e LabelElement) Create() modifier.Node {
	return &labelNode{spec: e}
}

func (e LabelElement) Update(n modifier.Node) {
	ln := n.(*labelNode)
	if ln.spec != e {
		ln.spec = e
		ln.InvalidateDraw()
	}
}

func (e LabelElement) AlwaysUpdate() bool { return false }

type labelNode struct {
	modifier.NodeBase
	spec LabelElement
}

func (n *labelNode) Draw(scope *render.DrawScope) {
	scope.DrawText(n.spec.Text, 0, 0, n.spec.Color, n.spec.Scale)
}
