package widgets

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agiangrant/reflow/compose"
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/input"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
	"github.com/agiangrant/reflow/render"
	"github.com/agiangrant/reflow/runtime"
)

func newHost(t *testing.T) (*compose.Composer, *runtime.Scheduler, *layout.Node) {
	t.Helper()
	sched := runtime.NewScheduler()
	root := layout.NewNode(layout.BoxPolicy{})
	return compose.NewComposer(sched, root), sched, root
}

func drain(t *testing.T, c *compose.Composer) bool {
	t.Helper()
	ran, err := c.ProcessInvalidScopes()
	if err != nil {
		t.Fatalf("ProcessInvalidScopes: %v", err)
	}
	return ran
}

// pump alternates recomposition and measurement until both settle,
// mimicking the host's frame loop.
func pump(t *testing.T, c *compose.Composer, root *layout.Node, w, h float32) {
	t.Helper()
	root.Measure(layout.Tight(w, h))
	for i := 0; i < 8; i++ {
		if !drain(t, c) {
			return
		}
		root.Measure(layout.Tight(w, h))
	}
	t.Fatal("composition did not settle")
}

func buildScene(t *testing.T, root *layout.Node, w, h float32) *render.SoftScene {
	t.Helper()
	s := render.NewSoftScene()
	s.RebuildScene(root, layout.Size{Width: w, Height: h})
	return s
}

func sceneTexts(s *render.SoftScene) []string {
	var out []string
	for _, cmd := range s.Commands() {
		if cmd.Text != "" {
			out = append(out, cmd.Text)
		}
	}
	return out
}

func dispatch(t *testing.T, d *input.Dispatcher, kind event.PointerKind, x, y float32) *event.PointerEvent {
	t.Helper()
	ev := event.NewPointerEvent(1, kind, x, y, event.MouseButtonLeft, 0)
	if err := d.DispatchPointer(ev); err != nil {
		t.Fatalf("dispatch %v at (%v,%v): %v", kind, x, y, err)
	}
	return ev
}

func TestConditionalBranchReplacesOnlyItsNode(t *testing.T) {
	c, _, root := newHost(t)
	var show *runtime.State[bool]
	var count *runtime.State[int]
	var branch, counter *layout.Node

	err := c.Compose(func(cc *compose.Composer) {
		cc.WithScope(compose.CallerKey(0), func(cc *compose.Composer) {
			show = compose.UseState(cc, func() bool { return true })
			count = compose.UseState(cc, func() int { return 0 })
			Column(cc, FlexOptions{}, func() {
				If(cc, show.Get(), func() {
					branch = Text(cc, "details shown")
				}, func() {
					branch = Text(cc, "details hidden")
				})
				counter = Text(cc, fmt.Sprintf("count: %d", count.Get()))
			})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	branchID := branch.ID()
	counterBefore := counter
	arenaBefore := c.Applier().Len()

	if err := runtime.RunInMutableSnapshot(func() error {
		show.Set(false)
		count.Set(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if !drain(t, c) {
		t.Fatal("no recomposition after state writes")
	}

	if branch.ID() == branchID {
		t.Error("branch swap kept the old node")
	}
	if counter != counterBefore {
		t.Error("sibling text node was recreated")
	}
	if got := c.Applier().Len(); got != arenaBefore {
		t.Errorf("arena holds %d nodes, want %d (old branch not released)", got, arenaBefore)
	}

	pump(t, c, root, 400, 300)
	texts := sceneTexts(buildScene(t, root, 400, 300))
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "details hidden") || !strings.Contains(joined, "count: 1") {
		t.Errorf("scene texts = %v", texts)
	}
	if strings.Contains(joined, "details shown") {
		t.Errorf("stale branch still drawn: %v", texts)
	}
}

func TestClickableFiresThroughScene(t *testing.T) {
	c, _, root := newHost(t)
	clicks := 0

	err := c.Compose(func(cc *compose.Composer) {
		Clickable(cc, func(x, y float32) { clicks++ }, ClickOptions{
			Modifiers: []modifier.Element{layout.ExactSize(120, 40), layout.AlignElement{Alignment: layout.AlignTopStart}},
		}, func() {
			Text(cc, "press me")
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	pump(t, c, root, 400, 300)
	scene := buildScene(t, root, 400, 300)
	d := input.NewDispatcher(scene, input.DefaultConfig())

	dispatch(t, d, event.PointerDown, 60, 20)
	dispatch(t, d, event.PointerUp, 60, 20)
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	dispatch(t, d, event.PointerDown, 300, 200)
	dispatch(t, d, event.PointerUp, 300, 200)
	if clicks != 1 {
		t.Errorf("click outside the region fired, clicks = %d", clicks)
	}
}

func TestSpacerAndFlexPlacement(t *testing.T) {
	c, _, root := newHost(t)
	var a, b *layout.Node

	err := c.Compose(func(cc *compose.Composer) {
		Column(cc, FlexOptions{Spacing: 10, Modifiers: []modifier.Element{layout.AlignElement{Alignment: layout.AlignTopStart}}}, func() {
			a = Spacer(cc, 50, 20)
			b = Spacer(cc, 50, 30)
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	pump(t, c, root, 200, 200)

	if a.Offset().Y != 0 {
		t.Errorf("first child y = %v, want 0", a.Offset().Y)
	}
	if b.Offset().Y != 30 {
		t.Errorf("second child y = %v, want 30", b.Offset().Y)
	}
}
