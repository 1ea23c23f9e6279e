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

// TextFieldOptions configures a TextField.
type TextFieldOptions struct {
	// Focus is the window's focus manager; required.
	Focus *input.FocusManager

	// Requester, when set, is bound to the field's focus id so callers can
	// focus the field programmatically.
	Requester *input.FocusRequester

	// Placeholder is drawn dimmed while the field is empty and unfocused.
	Placeholder string

	TextColor      render.Color
	SelectionColor render.Color
	CaretColor     render.Color

	Modifiers []modifier.Element
}

const (
	defaultSelectionColor render.Color = 0x3390FF66
	placeholderAlpha                   = 0x80
)

// TextField emits an editable single-region text field bound to state. The
// field reads the state snapshot inside its own scope, so edits recompose
// only the field; while focused it registers state as the exclusive
// keyboard handler, and clicking inside it places the caret at the hit
// offset.
func TextField(c *compose.Composer, state *text.FieldState, opts TextFieldOptions) {
	c.WithScope(compose.CallerKey(1), func(c *compose.Composer) {
		snap := state.Read()
		focused := compose.UseState(c, func() bool { return false })
		isFocused := focused.Get()

		textColor := opts.TextColor
		if textColor == render.Transparent {
			textColor = render.Black
		}
		selectionColor := opts.SelectionColor
		if selectionColor == render.Transparent {
			selectionColor = defaultSelectionColor
		}
		caretColor := opts.CaretColor
		if caretColor == render.Transparent {
			caretColor = textColor
		}

		display := snap.Text
		displayColor := textColor
		placeholder := false
		if display == "" && opts.Placeholder != "" {
			display = opts.Placeholder
			displayColor = textColor.WithAlpha(placeholderAlpha)
			placeholder = true
		}

		measurer := text.ActiveMeasurer()
		m := measurer.Measure(display)
		height := m.Height
		if height < m.LineHeight {
			height = m.LineHeight
		}

		focus := opts.Focus
		mods := make([]modifier.Element, 0, 3+len(opts.Modifiers))
		mods = append(mods, fieldDrawElement{
			Snapshot:       snap,
			Placeholder:    placeholder,
			Focused:        isFocused,
			Blink:          state.Blink(),
			Display:        display,
			TextColor:      displayColor,
			SelectionColor: selectionColor,
			CaretColor:     caretColor,
		})
		mods = append(mods, input.FocusableElement{
			Manager:   focus,
			Requester: opts.Requester,
			OnChanged: func(st modifier.FocusState) {
				if st == modifier.FocusInactive {
					if focus.TextFieldHandler() == state {
						focus.SetTextFieldHandler(nil)
					}
					focused.Set(false)
					return
				}
				focus.SetTextFieldHandler(state)
				focused.Set(true)
			},
		})
		mods = append(mods, input.ClickableElement{
			OnClick: func(x, y float32) {
				snap := state.Peek()
				offset := measurer.OffsetForPosition(snap.Text, x, y)
				state.Edit(func(b *text.Buffer) {
					b.SetSelection(text.Range{Start: offset, End: offset})
				})
			},
			Enabled: true,
		})
		mods = append(mods, opts.Modifiers...)

		n := c.EmitNode(layout.LeafPolicy{Width: m.Width, Height: height}, func(n *layout.Node) {
			n.SetModifiers(mods)
		})
		// Content edits change the measured size; the leaf policy is
		// rebuilt on recomposition, but the node must also re-enter the
		// measure pass.
		state.SetOnEdited(n.InvalidateMeasure)
	})
}

// fieldDrawElement paints the field content: selection highlight behind the
// text, the text run, the composition underline, and the caret.
type fieldDrawElement struct {
	Snapshot       text.Snapshot
	Display        string
	Placeholder    bool
	Focused        bool
	Blink          *text.Blink
	TextColor      render.Color
	SelectionColor render.Color
	CaretColor     render.Color
}

func (e fieldDrawElement) Capabilities() modifier.Capabilities { return modifier.CapDraw }

func (e fieldDrawElement) Create() modifier.Node {
	return &fieldDrawNode{spec: e}
}

func (e fieldDrawElement) Update(n modifier.Node) {
	fn := n.(*fieldDrawNode)
	if fn.spec != e {
		fn.spec = e
		fn.InvalidateDraw()
	}
}

func (e fieldDrawElement) AlwaysUpdate() bool { return false }

type fieldDrawNode struct {
	modifier.NodeBase
	spec fieldDrawElement
}

func (n *fieldDrawNode) Draw(scope *render.DrawScope) {
	measurer := text.ActiveMeasurer()
	content := n.spec.Snapshot.Text
	lineHeight := measurer.Measure(content).LineHeight

	if !n.spec.Placeholder {
		if sel := n.spec.Snapshot.Selection.Normalized(); !sel.Collapsed() {
			x0 := measurer.CursorXForOffset(content, sel.Start)
			x1 := measurer.CursorXForOffset(content, sel.End)
			scope.FillRect(event.Bounds{X: x0, Width: x1 - x0, Height: lineHeight}, n.spec.SelectionColor, 0)
		}
	}

	scope.DrawText(n.spec.Display, 0, 0, n.spec.TextColor, 1)

	if n.spec.Snapshot.HasComposition {
		comp := n.spec.Snapshot.Composition.Normalized()
		x0 := measurer.CursorXForOffset(content, comp.Start)
		x1 := measurer.CursorXForOffset(content, comp.End)
		scope.FillRect(event.Bounds{X: x0, Y: lineHeight - 1, Width: x1 - x0, Height: 1}, n.spec.TextColor, 0)
	}

	if n.spec.Focused && !n.spec.Placeholder && n.spec.Blink != nil && n.spec.Blink.Visible() {
		x := measurer.CursorXForOffset(content, n.spec.Snapshot.Selection.End)
		scope.FillRect(event.Bounds{X: x, Width: 1, Height: lineHeight}, n.spec.CaretColor, 0)
	}
}
