package custody

import (
	"sync"

	id "keywatch/pkg/domain"
)

type slot struct {
	mu  sync.Mutex
	key *Key
}

// Table owns every tracked key and one lock per key. Operations on different
// keys run in parallel; WithAll takes every lock in id.Keys order.
type Table struct {
	slots map[id.KeyID]*slot
}

// NewTable creates a table tracking keys, each starting returned.
func NewTable(keys ...id.KeyID) *Table {
	if len(keys) == 0 {
		keys = id.Keys
	}
	t := &Table{slots: make(map[id.KeyID]*slot, len(keys))}
	for _, k := range keys {
		t.slots[k] = &slot{key: NewKey(k)}
	}
	return t
}

// WithKey runs fn while holding the key's lock. It reports false for
// untracked keys.
func (t *Table) WithKey(keyID id.KeyID, fn func(*Key)) bool {
	s, ok := t.slots[keyID]
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.key)
	return true
}

// WithAll runs fn while holding every key lock.
func (t *Table) WithAll(fn func(keys []*Key)) {
	ordered := t.ordered()
	keys := make([]*Key, 0, len(ordered))
	for _, s := range ordered {
		s.mu.Lock()
		keys = append(keys, s.key)
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}()
	fn(keys)
}

// Snapshot copies every key's state in id.Keys order. Each key is read under
// its own lock; the result is not a single atomic cut across keys.
func (t *Table) Snapshot() []State {
	out := make([]State, 0, len(t.slots))
	for _, s := range t.ordered() {
		s.mu.Lock()
		out = append(out, s.key.Snapshot())
		s.mu.Unlock()
	}
	return out
}

// Tracked lists tracked keys in lock order.
func (t *Table) Tracked() []id.KeyID {
	out := make([]id.KeyID, 0, len(t.slots))
	for _, k := range id.Keys {
		if _, ok := t.slots[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (t *Table) ordered() []*slot {
	out := make([]*slot, 0, len(t.slots))
	for _, k := range t.Tracked() {
		out = append(out, t.slots[k])
	}
	return out
}
