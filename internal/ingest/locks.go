package ingest

import "sync"

// lockRegistry hands out one mutex per document id so overlapping runs for
// the same document serialize while runs for different documents proceed
// concurrently.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[int64]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[int64]*docLock)}
}

// acquire blocks until the lock for id is held. The returned release
// function must be called exactly once.
func (r *lockRegistry) acquire(id int64) (release func()) {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &docLock{}
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
		r.mu.Unlock()
	}
}
