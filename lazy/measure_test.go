package lazy

import (
	"math"
	"testing"
)

// fixedItems builds a compose hook with constant item size, counting how
// many subcompositions each measure pass performs.
type fixedItems struct {
	size     float32
	composed int
}

func (f *fixedItems) compose(index int) MeasuredItem {
	f.composed++
	return MeasuredItem{
		Key:         index,
		ContentType: "row",
		MainSize:    f.size,
		CrossSize:   200,
	}
}

func (f *fixedItems) input(count int, viewport float32) MeasureInput {
	return MeasureInput{
		ViewportMain: viewport,
		ItemCount:    count,
		Compose:      f.compose,
	}
}

func TestInitialFill(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 0, 0)
	res := s.Measure(items.input(math.MaxInt64, 600))

	want := 13 // ceil(600/48)
	if len(res.Items) != want {
		t.Fatalf("composed window = %d items, want %d", len(res.Items), want)
	}
	if res.Items[0].Index != 0 || res.Items[0].Offset != 0 {
		t.Errorf("first item = %+v", res.Items[0])
	}
	if res.Items[12].Offset != 576 {
		t.Errorf("last offset = %v, want 576", res.Items[12].Offset)
	}
	if s.AverageItemSize() != 48 {
		t.Errorf("avg = %v", s.AverageItemSize())
	}
}

// Jumping to an extreme index composes only a viewport's worth of items,
// and jumping back lands exactly on item 0.
func TestExtremeJump(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 0, 0)
	s.Measure(items.input(math.MaxInt64, 600))

	s.ScrollToItem(50_000_000, 0)
	items.composed = 0
	res := s.Measure(MeasureInput{
		ViewportMain:  600,
		ItemCount:     math.MaxInt64,
		PrefetchCount: DefaultPrefetchCount,
		Compose:       items.compose,
	})
	if res.Items[0].Index != 50_000_000 {
		t.Errorf("first visible = %d", res.Items[0].Index)
	}
	if limit := 13 + DefaultPrefetchCount; items.composed > limit {
		t.Errorf("composed %d items on jump, budget %d", items.composed, limit)
	}
	if len(res.Prefetch) != DefaultPrefetchCount || res.Prefetch[0] != 50_000_013 {
		t.Errorf("prefetch = %v", res.Prefetch)
	}

	s.ScrollToItem(0, 0)
	res = s.Measure(items.input(math.MaxInt64, 600))
	if res.Items[0].Index != 0 || s.FirstVisibleIndex() != 0 {
		t.Errorf("first visible after return = %d / %d", res.Items[0].Index, s.FirstVisibleIndex())
	}
}

func TestScrollByNormalizesAnchor(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 0, 0)
	s.Measure(items.input(1000, 600))

	s.ScrollBy(100) // two whole items plus 4px
	s.Measure(items.input(1000, 600))
	if s.FirstVisibleIndex() != 2 {
		t.Errorf("first visible = %d, want 2", s.FirstVisibleIndex())
	}
	if got := s.FirstVisibleScrollOffset(); got != 4 {
		t.Errorf("offset = %v, want 4", got)
	}

	s.ScrollBy(-100) // back to the top, clamped
	s.Measure(items.input(1000, 600))
	if s.FirstVisibleIndex() != 0 || s.FirstVisibleScrollOffset() != 0 {
		t.Errorf("anchor = (%d, %v), want (0, 0)",
			s.FirstVisibleIndex(), s.FirstVisibleScrollOffset())
	}
	if s.Direction() != -1 {
		t.Errorf("direction = %d, want -1", s.Direction())
	}
}

// Scrolling to the last item pulls the window back so the content end
// meets the viewport end.
func TestEndBoundsAdjuster(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 0, 0)
	s.ScrollToItem(19, 0)
	res := s.Measure(items.input(20, 600))

	if s.FirstVisibleIndex() != 7 {
		t.Errorf("first visible = %d, want 7", s.FirstVisibleIndex())
	}
	if got := s.FirstVisibleScrollOffset(); got != 24 {
		t.Errorf("offset = %v, want 24", got)
	}
	last := res.Items[len(res.Items)-1]
	if last.Index != 19 {
		t.Errorf("last index = %d, want 19", last.Index)
	}
	if end := last.Offset + last.MainSize; end != 600 {
		t.Errorf("content end = %v, want 600", end)
	}
}

func TestInfiniteViewportFallback(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 0, 0)
	res := s.Measure(items.input(1_000_000, float32(math.Inf(1))))

	want := float32(infiniteFallbackItems * defaultItemSizeGuess)
	if res.Viewport != want {
		t.Errorf("viewport = %v, want %v", res.Viewport, want)
	}
	if len(res.Items) != infiniteFallbackItems {
		t.Errorf("composed %d items, want %d", len(res.Items), infiniteFallbackItems)
	}

	// A later pass uses the measured average, not the guess.
	items.size = 100
	s2 := NewListState(nil, 0, 0)
	s2.Measure(items.input(1_000_000, 600))
	res = s2.Measure(items.input(1_000_000, 200_000))
	if want := float32(infiniteFallbackItems * 100); res.Viewport != want {
		t.Errorf("fallback viewport = %v, want %v", res.Viewport, want)
	}
}

func TestEmptyList(t *testing.T) {
	items := &fixedItems{size: 48}
	s := NewListState(nil, 5, 10)
	res := s.Measure(items.input(0, 600))
	if len(res.Items) != 0 || items.composed != 0 {
		t.Errorf("items = %d composed = %d", len(res.Items), items.composed)
	}
	if s.FirstVisibleIndex() != 0 {
		t.Errorf("anchor = %d after empty measure", s.FirstVisibleIndex())
	}
}

func TestSpacingAndPadding(t *testing.T) {
	items := &fixedItems{size: 50}
	s := NewListState(nil, 0, 0)
	res := s.Measure(MeasureInput{
		ViewportMain:  200,
		Spacing:       10,
		BeforePadding: 5,
		ItemCount:     100,
		Compose:       items.compose,
	})
	// y: 5, 65, 125, 185: four items cover the 200px viewport.
	if len(res.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(res.Items))
	}
	for i, wantY := range []float32{5, 65, 125, 185} {
		if res.Items[i].Offset != wantY {
			t.Errorf("item %d offset = %v, want %v", i, res.Items[i].Offset, wantY)
		}
	}
}

func TestNearestRange(t *testing.T) {
	tests := []struct {
		first, count int
		wantStart    int
		wantEnd      int
	}{
		{0, 1000, 0, 130},
		{35, 1000, 0, 160},
		{200, 10000, 80, 310},
		{200, 250, 80, 250},
		{5, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := NearestRange(tt.first, tt.count)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("NearestRange(%d, %d) = (%d, %d), want (%d, %d)",
				tt.first, tt.count, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}
