package lock

import "sync"

// Keyed hands out one mutex per key, serializing work scoped to a single
// resource (a game roster) without blocking work on other resources.
// Mutexes are retained for the lifetime of the process; the key space is
// bounded by the number of games, so no eviction is needed.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the mutex for key and returns its release func.
func (k *Keyed) Acquire(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
