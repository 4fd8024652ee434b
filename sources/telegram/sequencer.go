package telegram

import "sync"

// Sequencer serializes callback processing per surface so two taps on the
// same menu message cannot interleave their read-modify-write of history.
type Sequencer struct {
	mu    sync.Mutex
	locks map[string]*surfaceLock
}

type surfaceLock struct {
	mu   sync.Mutex
	refs int
}

func NewSequencer() *Sequencer {
	return &Sequencer{locks: make(map[string]*surfaceLock)}
}

func (x *Sequencer) Lock(surface string) func() {
	x.mu.Lock()
	lock, ok := x.locks[surface]
	if !ok {
		lock = &surfaceLock{}
		x.locks[surface] = lock
	}
	lock.refs++
	x.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		x.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(x.locks, surface)
		}
		x.mu.Unlock()
	}
}
