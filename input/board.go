package input

// Board tracks the current value per key with first-insertion ordering and
// tick-counted expiry. Eventful entries carry an expiry tick and are dropped
// at the top of the following tick, which replaces a "clear it next frame"
// coroutine with a plain field check.
type Board[K comparable, V any] struct {
	order   []K
	entries map[K]boardEntry[V]
	equal   func(a, b V) bool
	tick    uint64
}

type boardEntry[V any] struct {
	value   V
	expires uint64 // 0 = never
}

func NewBoard[K comparable, V any](equal func(a, b V) bool) *Board[K, V] {
	return &Board[K, V]{
		entries: make(map[K]boardEntry[V]),
		equal:   equal,
	}
}

func (b *Board[K, V]) CurrentTick() uint64 { return b.tick }

// Tick advances the board one tick and removes entries whose expiry has been
// reached. It reports whether anything was removed.
func (b *Board[K, V]) Tick() bool {
	b.tick++
	removed := false
	for i := 0; i < len(b.order); {
		k := b.order[i]
		e := b.entries[k]
		if e.expires != 0 && e.expires <= b.tick {
			delete(b.entries, k)
			b.order = append(b.order[:i], b.order[i+1:]...)
			removed = true
			continue
		}
		i++
	}
	return removed
}

// Put stores v under k. One-shot entries expire on the next Tick. Put reports
// whether the stored value changed.
func (b *Board[K, V]) Put(k K, v V, oneShot bool) bool {
	expires := uint64(0)
	if oneShot {
		expires = b.tick + 1
	}
	prev, ok := b.entries[k]
	if !ok {
		b.order = append(b.order, k)
	}
	b.entries[k] = boardEntry[V]{value: v, expires: expires}
	if !ok {
		return true
	}
	return b.equal == nil || !b.equal(prev.value, v)
}

func (b *Board[K, V]) Get(k K) (V, bool) {
	e, ok := b.entries[k]
	return e.value, ok
}

// Values returns the current values in first-insertion order.
func (b *Board[K, V]) Values() []V {
	out := make([]V, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.entries[k].value)
	}
	return out
}

func (b *Board[K, V]) Len() int { return len(b.order) }
