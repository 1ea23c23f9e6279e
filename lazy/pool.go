package lazy

// Slot is a retained subcomposition: the identity it was composed for and
// a dispose hook tearing down its remembered values and nodes.
type Slot struct {
	Key         any
	ContentType any
	Dispose     func()
}

// SlotReusePolicy governs which scrolled-off slots are worth keeping and
// whether a slot may serve a different key of the same content type.
type SlotReusePolicy interface {
	// Retain reports whether a scrolled-off slot should be pooled instead
	// of disposed.
	Retain(key, contentType any) bool

	// ReuseByType reports whether a pooled slot may be claimed by a
	// different key sharing its content type.
	ReuseByType() bool
}

// DefaultReusePolicy retains slots for exact-key reuse only: a slot waits
// for its own key to scroll back in, and never serves another item.
type DefaultReusePolicy struct{}

func (DefaultReusePolicy) Retain(key, contentType any) bool { return true }
func (DefaultReusePolicy) ReuseByType() bool                { return false }

// ContentTypeReusePolicy retains slots and lets any item of the same
// content type claim them, the cheapest setting for homogeneous lists.
type ContentTypeReusePolicy struct{}

func (ContentTypeReusePolicy) Retain(key, contentType any) bool { return true }
func (ContentTypeReusePolicy) ReuseByType() bool                { return true }

const defaultPoolCap = 16

// SlotPool holds scrolled-off slots for reuse, indexed by key and by
// content type. Oldest slots are disposed once the pool is full.
type SlotPool struct {
	policy SlotReusePolicy
	cap    int

	byKey map[any]*Slot
	// order preserves insertion for eviction and type scans.
	order []*Slot
}

// NewSlotPool creates a pool. policy nil selects DefaultReusePolicy;
// capacity <= 0 selects the default.
func NewSlotPool(policy SlotReusePolicy, capacity int) *SlotPool {
	if policy == nil {
		policy = DefaultReusePolicy{}
	}
	if capacity <= 0 {
		capacity = defaultPoolCap
	}
	return &SlotPool{policy: policy, cap: capacity, byKey: make(map[any]*Slot)}
}

// Len returns the number of pooled slots.
func (p *SlotPool) Len() int { return len(p.order) }

// Release offers a scrolled-off slot to the pool. Slots the policy
// declines, and the oldest slot when over capacity, are disposed.
func (p *SlotPool) Release(s *Slot) {
	if !p.policy.Retain(s.Key, s.ContentType) {
		dispose(s)
		return
	}
	if old, ok := p.byKey[s.Key]; ok {
		p.remove(old)
		dispose(old)
	}
	p.byKey[s.Key] = s
	p.order = append(p.order, s)
	for len(p.order) > p.cap {
		oldest := p.order[0]
		p.remove(oldest)
		dispose(oldest)
	}
}

// Acquire claims a pooled slot for the item: an exact key match first,
// then (policy permitting) any slot of the same content type. Nil when the
// item must be composed fresh.
func (p *SlotPool) Acquire(key, contentType any) *Slot {
	if s, ok := p.byKey[key]; ok {
		p.remove(s)
		return s
	}
	if !p.policy.ReuseByType() {
		return nil
	}
	for _, s := range p.order {
		if s.ContentType == contentType {
			p.remove(s)
			return s
		}
	}
	return nil
}

// Clear disposes every pooled slot.
func (p *SlotPool) Clear() {
	for _, s := range p.order {
		delete(p.byKey, s.Key)
		dispose(s)
	}
	p.order = nil
}

func (p *SlotPool) remove(s *Slot) {
	delete(p.byKey, s.Key)
	for i, cur := range p.order {
		if cur == s {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

func dispose(s *Slot) {
	if s.Dispose != nil {
		s.Dispose()
	}
}
