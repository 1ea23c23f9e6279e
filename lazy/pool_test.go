package lazy

import (
	"testing"

	"github.com/agiangrant/reflow/runtime"
)

func poolSlot(key any, contentType any, disposed *int) *Slot {
	return &Slot{
		Key:         key,
		ContentType: contentType,
		Dispose:     func() { *disposed++ },
	}
}

func TestPoolExactKeyReuse(t *testing.T) {
	var disposed int
	p := NewSlotPool(nil, 8)
	s := poolSlot("row-5", "row", &disposed)
	p.Release(s)

	if got := p.Acquire("row-5", "row"); got != s {
		t.Fatalf("Acquire returned %v, want the released slot", got)
	}
	if p.Len() != 0 {
		t.Errorf("pool len = %d after acquire", p.Len())
	}
	// The default policy refuses cross-key reuse even for a matching type.
	p.Release(s)
	if got := p.Acquire("row-6", "row"); got != nil {
		t.Errorf("default policy served a different key: %v", got)
	}
	if disposed != 0 {
		t.Errorf("disposed = %d", disposed)
	}
}

func TestPoolContentTypeReuse(t *testing.T) {
	var disposed int
	p := NewSlotPool(ContentTypeReusePolicy{}, 8)
	p.Release(poolSlot("a", "row", &disposed))
	p.Release(poolSlot("b", "header", &disposed))

	got := p.Acquire("c", "header")
	if got == nil || got.Key != "b" {
		t.Fatalf("Acquire by type = %+v, want the header slot", got)
	}
	if got := p.Acquire("d", "footer"); got != nil {
		t.Errorf("unknown type reused %v", got)
	}
}

func TestPoolEvictsOldest(t *testing.T) {
	var disposed int
	p := NewSlotPool(nil, 2)
	a := poolSlot("a", "row", &disposed)
	p.Release(a)
	p.Release(poolSlot("b", "row", &disposed))
	p.Release(poolSlot("c", "row", &disposed))

	if disposed != 1 {
		t.Fatalf("disposed = %d, want 1", disposed)
	}
	if got := p.Acquire("a", "row"); got != nil {
		t.Error("evicted slot still acquirable")
	}
	if got := p.Acquire("c", "row"); got == nil {
		t.Error("newest slot missing")
	}
}

func TestPoolClear(t *testing.T) {
	var disposed int
	p := NewSlotPool(nil, 8)
	p.Release(poolSlot("a", "row", &disposed))
	p.Release(poolSlot("b", "row", &disposed))
	p.Clear()
	if disposed != 2 || p.Len() != 0 {
		t.Errorf("disposed = %d len = %d", disposed, p.Len())
	}
}

type rejectingPolicy struct{}

func (rejectingPolicy) Retain(key, contentType any) bool { return false }
func (rejectingPolicy) ReuseByType() bool                { return false }

func TestPoolPolicyRejection(t *testing.T) {
	var disposed int
	p := NewSlotPool(rejectingPolicy{}, 8)
	p.Release(poolSlot("a", "row", &disposed))
	if disposed != 1 || p.Len() != 0 {
		t.Errorf("disposed = %d len = %d", disposed, p.Len())
	}
}

func TestPrefetcherWarmsOnNextDrain(t *testing.T) {
	sched := runtime.NewScheduler()
	var warmed []int
	p := NewPrefetcher(sched, func(i int) { warmed = append(warmed, i) })

	p.Schedule([]int{13, 14})
	p.Schedule([]int{13, 14}) // coalesces
	if len(warmed) != 0 {
		t.Fatal("warmed before drain")
	}
	sched.DrainFrameCallbacks(0)
	if len(warmed) != 2 || warmed[0] != 13 || warmed[1] != 14 {
		t.Errorf("warmed = %v", warmed)
	}
	// Nothing pending: the next drain is quiet.
	warmed = nil
	sched.DrainFrameCallbacks(16_000_000)
	if len(warmed) != 0 {
		t.Errorf("warmed = %v on empty drain", warmed)
	}
}
