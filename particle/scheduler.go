package particle

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a callback before the next frame is presented. The returned
// cancel func drops the callback if it has not run yet; calling it more than
// once is harmless.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

type request struct {
	id uint64
	fn func()
}

// queue holds pending frame requests in request order.
type queue struct {
	mu      sync.Mutex
	seq     uint64
	pending []request
	total   int
}

func (q *queue) add(fn func()) func() {
	q.mu.Lock()
	q.seq++
	id := q.seq
	q.pending = append(q.pending, request{id: id, fn: fn})
	q.total++
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, r := range q.pending {
			if r.id == id {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				return
			}
		}
	}
}

// take removes and returns everything pending. Callbacks requested while the
// batch runs land in the next batch.
func (q *queue) take() []request {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler runs frames only when Step is called.
type ManualScheduler struct {
	q queue
}

func (s *ManualScheduler) RequestFrame(fn func()) func() {
	return s.q.add(fn)
}

// Step runs every callback pending at the time of the call and reports how
// many ran.
func (s *ManualScheduler) Step() int {
	batch := s.q.take()
	for _, r := range batch {
		r.fn()
	}
	return len(batch)
}

// StepN calls Step n times.
func (s *ManualScheduler) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Pending returns the number of callbacks waiting for the next Step.
func (s *ManualScheduler) Pending() int { return s.q.len() }

// Requests returns the number of RequestFrame calls made so far.
func (s *ManualScheduler) Requests() int {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	return s.q.total
}

// FrameLoop is a ticker-driven scheduler. Frame callbacks and posted events
// all run on the goroutine that calls Run, one at a time.
type FrameLoop struct {
	interval time.Duration
	q        queue
	events   chan func()
}

// NewFrameLoop returns a loop firing every interval.
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DisplayRate
	}
	return &FrameLoop{
		interval: interval,
		events:   make(chan func(), 64),
	}
}

func (l *FrameLoop) RequestFrame(fn func()) func() {
	return l.q.add(fn)
}

// Post queues fn to run on the loop goroutine between frames.
func (l *FrameLoop) Post(fn func()) {
	l.events <- fn
}

// Run drives the loop until ctx is done.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		case <-ticker.C:
			for _, r := range l.q.take() {
				r.fn()
			}
		}
	}
}
