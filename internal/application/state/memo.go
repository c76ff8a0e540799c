package state

import "sync"

// memo cachea el último resultado de fn según la identidad de la entrada. Los snapshots son
// inmutables, así que la misma referencia implica el mismo resultado.
type memo[K comparable, V any] struct {
	mu  sync.Mutex
	fn  func(K) V
	ok  bool
	key K
	val V
}

func newMemo[K comparable, V any](fn func(K) V) *memo[K, V] {
	return &memo[K, V]{fn: fn}
}

func (m *memo[K, V]) get(k K) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && m.key == k {
		return m.val
	}
	m.key, m.val, m.ok = k, m.fn(k), true
	return m.val
}
