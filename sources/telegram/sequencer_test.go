package telegram

import (
	"sync"
	"testing"
)

func TestSequencerSerializesOneSurface(t *testing.T) {
	sequencer := NewSequencer()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			unlock := sequencer.Lock("1:100")
			defer unlock()

			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if len(order) != 16 {
		t.Fatalf("executed %d sections, want 16", len(order))
	}
	if len(sequencer.locks) != 0 {
		t.Errorf("lock table should be empty after release, has %d entries", len(sequencer.locks))
	}
}

func TestSequencerIsolatesSurfaces(t *testing.T) {
	sequencer := NewSequencer()

	unlockA := sequencer.Lock("1:100")
	done := make(chan struct{})
	go func() {
		unlockB := sequencer.Lock("2:200")
		unlockB()
		close(done)
	}()

	// a held lock on one surface must not block another surface
	<-done
	unlockA()
}
