package downloader

import (
	"context"
	"sync"
)

// Semaphore bounds the number of parallel downloads, and allows resizing.
//
// It uses a sync.Cond, so it will be slower than a channel with a fixed capacity. This doesn't matter
// for the coarse control of downloads.
type Semaphore struct {
	cond              sync.Cond
	capacity, current int
}

// NewSemaphore returns a Semaphore that allows at most capacity simultaneous acquisitions.
// If capacity <= 0, there is no limit on acquisitions.
func NewSemaphore(capacity int) *Semaphore {
	return &Semaphore{
		cond:     sync.Cond{L: &sync.Mutex{}},
		capacity: capacity,
	}
}

// Acquire a slot, waiting for one to be released if the semaphore is full.
// It must be matched by exactly one call to Semaphore.Release.
func (s *Semaphore) Acquire() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	for s.capacity > 0 && s.current >= s.capacity {
		s.cond.Wait()
	}
	s.current++
}

// AcquireContext is like Semaphore.Acquire, but gives up waiting when ctx is done, returning ctx.Err().
// On success, it must be matched by exactly one call to Semaphore.Release.
func (s *Semaphore) AcquireContext(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.cond.L.Lock()
		defer s.cond.L.Unlock()
		s.cond.Broadcast()
	})
	defer stop()

	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	for s.capacity > 0 && s.current >= s.capacity {
		if err := ctx.Err(); err != nil {
			// We may have consumed the wakeup of a Release: pass it on.
			s.cond.Signal()
			return err
		}
		s.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		s.cond.Signal()
		return err
	}
	s.current++
	return nil
}

// Release a slot previously acquired with Semaphore.Acquire or Semaphore.AcquireContext.
func (s *Semaphore) Release() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.current--
	s.cond.Signal()
}

// Resize the semaphore.
//
// Growing it may immediately unblock pending Semaphore.Acquire calls (all are woken, so the queue order may be
// lost). Shrinking it doesn't affect slots already acquired.
func (s *Semaphore) Resize(newCapacity int) {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	if newCapacity == s.capacity {
		return
	}
	s.capacity = newCapacity
	s.cond.Broadcast()
}

// Capacity returns the current capacity, <= 0 meaning unlimited.
func (s *Semaphore) Capacity() int {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	return s.capacity
}
