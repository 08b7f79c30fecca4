package timeoff

import "sync"

// PersonLocks serializes mutations per person so the conflict-check read and
// the writes that follow it are not interleaved with another save for the
// same person. The zero value is ready to use.
type PersonLocks struct {
	mu    sync.Mutex
	locks map[string]*personLock
}

type personLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until person is free and returns the matching unlock func.
func (pl *PersonLocks) Lock(person string) func() {
	pl.mu.Lock()
	if pl.locks == nil {
		pl.locks = make(map[string]*personLock)
	}
	l, ok := pl.locks[person]
	if !ok {
		l = &personLock{}
		pl.locks[person] = l
	}
	l.refs++
	pl.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		pl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(pl.locks, person)
		}
		pl.mu.Unlock()
	}
}
