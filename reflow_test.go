package reflow

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agiangrant/reflow/compose"
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/lazy"
	"github.com/agiangrant/reflow/modifier"
	"github.com/agiangrant/reflow/runtime"
	"github.com/agiangrant/reflow/text"
	"github.com/agiangrant/reflow/widgets"
)

func sceneTexts(a *App) string {
	var sb strings.Builder
	for _, cmd := range a.Scene().Commands() {
		if cmd.Text != "" {
			sb.WriteString(cmd.Text)
			sb.WriteString("|")
		}
	}
	return sb.String()
}

func tick(t *testing.T, a *App, nowNanos int64) bool {
	t.Helper()
	repaint, err := a.Tick(nowNanos)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	return repaint
}

func pointer(t *testing.T, a *App, kind event.PointerKind, x, y float32) {
	t.Helper()
	ev := event.NewPointerEvent(1, kind, x, y, event.MouseButtonLeft, 0)
	if err := a.PointerEvent(ev); err != nil {
		t.Fatalf("PointerEvent: %v", err)
	}
	ev.Release()
}

func TestAppClickCounter(t *testing.T) {
	a := NewApp(DefaultConfig())
	woken := 0
	a.SetWaker(func() { woken++ })
	a.Resize(400, 300)

	var count *runtime.State[int]
	err := a.SetContent(func(cc *compose.Composer) {
		cc.WithScope(compose.CallerKey(0), func(cc *compose.Composer) {
			count = compose.UseState(cc, func() int { return 0 })
			widgets.Clickable(cc, func(x, y float32) {
				count.Set(count.Peek() + 1)
			}, widgets.ClickOptions{
				Modifiers: []modifier.Element{
					layout.ExactSize(120, 40),
					layout.AlignElement{Alignment: layout.AlignTopStart},
				},
			}, func() {
				widgets.Text(cc, fmt.Sprintf("clicks: %d", count.Get()))
			})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if !tick(t, a, 0) {
		t.Fatal("first frame did not repaint")
	}
	if got := sceneTexts(a); !strings.Contains(got, "clicks: 0") {
		t.Fatalf("initial scene = %q", got)
	}

	pointer(t, a, event.PointerDown, 20, 20)
	pointer(t, a, event.PointerUp, 20, 20)
	if woken == 0 {
		t.Error("click did not wake the host")
	}
	if !tick(t, a, 1e7) {
		t.Fatal("frame after click did not repaint")
	}
	if got := sceneTexts(a); !strings.Contains(got, "clicks: 1") {
		t.Errorf("scene after click = %q", got)
	}

	if tick(t, a, 2e7) {
		t.Error("idle frame repainted")
	}
}

func TestAppLazyListScrollFrame(t *testing.T) {
	a := NewApp(DefaultConfig())
	a.Resize(300, 600)
	state := lazy.NewListState(a.Scheduler(), 0, 0)

	err := a.SetContent(func(cc *compose.Composer) {
		widgets.LazyColumn(cc, state, widgets.LazyColumnOptions{Count: 10_000}, func(cc *compose.Composer, i int) {
			widgets.Text(cc, fmt.Sprintf("row %d", i))
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	tick(t, a, 0)
	if got := sceneTexts(a); !strings.Contains(got, "row 0|") {
		t.Fatalf("initial scene = %q", got)
	}

	state.ScrollToItem(5000, 0)
	if !tick(t, a, 1e7) {
		t.Fatal("scroll frame did not repaint")
	}
	got := sceneTexts(a)
	if !strings.Contains(got, "row 5000|") {
		t.Errorf("scene after jump = %q", got)
	}
	if strings.Contains(got, "row 0|") {
		t.Errorf("scene still draws the old window: %q", got)
	}
}

// chainPolicy feeds a counter back from measurement, so composition needs
// several recompose/measure rounds to settle; the sleep prices each round
// against the frame budget.
type chainPolicy struct {
	counter *runtime.State[int]
	delay   time.Duration
}

func (p *chainPolicy) Measure(c layout.Constraints, children []layout.Measurable) layout.Size {
	time.Sleep(p.delay)
	if v := p.counter.Peek(); v < 3 {
		p.counter.Set(v + 1)
	}
	return layout.Size{Width: 10, Height: 10}
}

func (p *chainPolicy) MinIntrinsicWidth([]layout.Measurable, float32) float32  { return 10 }
func (p *chainPolicy) MaxIntrinsicWidth([]layout.Measurable, float32) float32  { return 10 }
func (p *chainPolicy) MinIntrinsicHeight([]layout.Measurable, float32) float32 { return 10 }
func (p *chainPolicy) MaxIntrinsicHeight([]layout.Measurable, float32) float32 { return 10 }

func TestTickFrameBudgetDefersSettling(t *testing.T) {
	newChainApp := func(budgetMillis int) (*App, *runtime.State[int]) {
		cfg := DefaultConfig()
		cfg.FrameBudgetMillis = budgetMillis
		a := NewApp(cfg)
		a.Resize(100, 100)
		counter := runtime.NewState(0)
		err := a.SetContent(func(cc *compose.Composer) {
			counter.Get()
			cc.EmitNode(&chainPolicy{counter: counter, delay: 3 * time.Millisecond}, nil)
		})
		if err != nil {
			t.Fatal(err)
		}
		return a, counter
	}

	// A 1ms budget lapses during the first settle round (each round sleeps
	// 3ms), so the chain cannot finish within one tick.
	a, counter := newChainApp(1)
	tick(t, a, 0)
	if got := counter.Peek(); got >= 3 {
		t.Fatalf("counter = %d after one over-budget tick, settling was not deferred", got)
	}
	for i := 1; i <= 5; i++ {
		tick(t, a, int64(i)*1e7)
	}
	if got := counter.Peek(); got != 3 {
		t.Errorf("counter = %d after follow-up ticks, want 3", got)
	}

	// A generous budget settles the same chain in a single tick.
	b, counter2 := newChainApp(1000)
	tick(t, b, 0)
	if got := counter2.Peek(); got != 3 {
		t.Errorf("counter = %d after one in-budget tick, want 3", got)
	}
}

func TestAppTextFieldCaretBlink(t *testing.T) {
	a := NewApp(DefaultConfig())
	a.Resize(400, 300)
	field := text.NewFieldState("hi", true)

	err := a.SetContent(func(cc *compose.Composer) {
		widgets.TextField(cc, field, widgets.TextFieldOptions{Focus: a.Focus()})
	})
	if err != nil {
		t.Fatal(err)
	}
	tick(t, a, 0)

	pointer(t, a, event.PointerDown, 5, 5)
	pointer(t, a, event.PointerUp, 5, 5)
	tick(t, a, 1e7)
	if a.Focus().TextFieldHandler() != field {
		t.Fatal("field did not take keyboard focus")
	}

	// Typing goes through the app's key boundary.
	ev := event.NewKeyEvent(event.KeyDown, "!", "!", 0, false)
	if !a.KeyEvent(ev) {
		t.Error("focused field did not consume the key")
	}
	ev.Release()
	tick(t, a, 2e7)
	if got := field.Peek().Text; got != "hi!" {
		t.Errorf("text = %q, want %q", got, "hi!")
	}

	// The edit reset the blink from the wall clock; the next tick re-bases
	// it onto the host clock, and the half-period elapsing after that
	// repaints without any input.
	tick(t, a, 3e7)
	blinkNanos := int64(3e7) + DefaultConfig().BlinkInterval().Nanoseconds() + 1e6
	if !tick(t, a, blinkNanos) {
		t.Error("caret toggle did not repaint")
	}
}
