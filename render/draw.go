package render

import (
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/modifier"
)

// CommandKind selects the primitive a DrawCommand encodes.
type CommandKind uint8

const (
	CmdRect CommandKind = iota
	CmdGradient
	CmdText
)

// DrawCommand is one renderer primitive: a solid or gradient fill, or a text
// run at a rectangle. Z orders commands globally; ties keep emission order.
type DrawCommand struct {
	Kind   CommandKind
	Bounds event.Bounds
	Z      int

	Color        Color
	ColorEnd     Color // CmdGradient second stop
	Vertical     bool  // CmdGradient direction
	CornerRadius float32

	Text  string
	Scale float32
}

// DrawScope is what a draw node paints into: content-local commands that the
// scene translates to window coordinates.
type DrawScope struct {
	size     event.Bounds
	commands []DrawCommand
}

// Size returns the node's draw bounds in local coordinates.
func (s *DrawScope) Size() (w, h float32) {
	return s.size.Width, s.size.Height
}

// FillRect records a solid fill over the given local rectangle.
func (s *DrawScope) FillRect(b event.Bounds, color Color, radius float32) {
	s.commands = append(s.commands, DrawCommand{
		Kind:         CmdRect,
		Bounds:       b,
		Color:        color,
		CornerRadius: radius,
	})
}

// FillGradient records a two-stop linear gradient fill.
func (s *DrawScope) FillGradient(b event.Bounds, from, to Color, vertical bool, radius float32) {
	s.commands = append(s.commands, DrawCommand{
		Kind:         CmdGradient,
		Bounds:       b,
		Color:        from,
		ColorEnd:     to,
		Vertical:     vertical,
		CornerRadius: radius,
	})
}

// DrawText records a text run at the given local origin.
func (s *DrawScope) DrawText(text string, x, y float32, color Color, scale float32) {
	s.commands = append(s.commands, DrawCommand{
		Kind:   CmdText,
		Bounds: event.Bounds{X: x, Y: y},
		Text:   text,
		Color:  color,
		Scale:  scale,
	})
}

// DrawModifierNode is the draw capability: nodes paint behind their content,
// and may paint over it from OverlayContent.
type DrawModifierNode interface {
	modifier.Node
	Draw(scope *DrawScope)
}

// OverlayDrawNode is implemented additionally by draw nodes that also paint
// after the node's content (selection highlights, focus rings).
type OverlayDrawNode interface {
	DrawOverlay(scope *DrawScope)
}

// BackgroundElement fills the node's bounds with a solid color.
type BackgroundElement struct {
	Color        Color
	CornerRadius float32
}

func (e BackgroundElement) Capabilities() modifier.Capabilities { return modifier.CapDraw }

func (e BackgroundElement) Create() modifier.Node {
	return &backgroundNode{spec: e}
}

func (e BackgroundElement) Update(n modifier.Node) {
	bn := n.(*backgroundNode)
	bn.spec = e
	bn.InvalidateDraw()
}

func (e BackgroundElement) AlwaysUpdate() bool { return false }

type backgroundNode struct {
	modifier.NodeBase
	spec BackgroundElement
}

func (n *backgroundNode) Draw(scope *DrawScope) {
	w, h := scope.Size()
	scope.FillRect(event.Bounds{Width: w, Height: h}, n.spec.Color, n.spec.CornerRadius)
}

// GradientElement fills the node's bounds with a two-stop gradient.
type GradientElement struct {
	From, To     Color
	Vertical     bool
	CornerRadius float32
}

func (e GradientElement) Capabilities() modifier.Capabilities { return modifier.CapDraw }

func (e GradientElement) Create() modifier.Node {
	return &gradientNode{spec: e}
}

func (e GradientElement) Update(n modifier.Node) {
	gn := n.(*gradientNode)
	gn.spec = e
	gn.InvalidateDraw()
}

func (e GradientElement) AlwaysUpdate() bool { return false }

type gradientNode struct {
	modifier.NodeBase
	spec GradientElement
}

func (n *gradientNode) Draw(scope *DrawScope) {
	w, h := scope.Size()
	scope.FillGradient(event.Bounds{Width: w, Height: h}, n.spec.From, n.spec.To, n.spec.Vertical, n.spec.CornerRadius)
}
