package compose

import (
	"fmt"
	"hash/fnv"
	"runtime"
)

// Key identifies a group at a call site within its parent. Site comes from
// the caller's program counter, so two different call sites of the same
// function get distinct groups. User carries an optional caller-supplied
// value for keyed loops and branches.
type Key struct {
	Site uintptr
	User uint64
}

// CallerKey derives a key from the calling code location. skip counts stack
// frames above the caller, as in runtime.Caller.
func CallerKey(skip int) Key {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return Key{}
	}
	return Key{Site: pc}
}

// WithUser returns a copy of k carrying the hash of value. Loop bodies use
// this so that reordered items keep their groups.
func (k Key) WithUser(value any) Key {
	h := fnv.New64a()
	fmt.Fprintf(h, "%T:%v", value, value)
	k.User = h.Sum64()
	return k
}

func (k Key) String() string {
	return fmt.Sprintf("key(%x:%x)", k.Site, k.User)
}
