package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs caller-supplied actions at a future wall-clock time.
// Actions capture their payload at registration time, fire at most once and
// no earlier than their fire time, and outlive the request that scheduled
// them. There is no cancellation.
//
// A single goroutine watches a min-heap keyed by fire time; due actions are
// dispatched on their own goroutines so a slow action never delays the
// next one. Action failures are logged and swallowed: nobody is waiting on
// the result.
type Scheduler struct {
	mu      sync.Mutex
	pending entryHeap
	seq     uint64
	closed  bool

	wake   chan struct{}
	done   chan struct{}
	logger *zap.Logger
}

type entry struct {
	fireAt time.Time
	name   string
	action func()
	seq    uint64
}

// New creates a Scheduler and starts its dispatch goroutine.
func New(logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go s.run()
	return s
}

// Schedule registers an action to fire at fireAt. The name is only used in
// logs. The caller does not block; a fire time in the past fires promptly.
func (s *Scheduler) Schedule(fireAt time.Time, name string, action func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	heap.Push(&s.pending, &entry{fireAt: fireAt, name: name, action: action, seq: s.seq})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop shuts down the dispatch goroutine. Pending actions are dropped;
// actions already dispatched run to completion.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
}

func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		now := time.Now()
		for s.pending.Len() > 0 && !s.pending[0].fireAt.After(now) {
			e := heap.Pop(&s.pending).(*entry)
			go s.dispatch(e)
		}
		wait := time.Hour
		if s.pending.Len() > 0 {
			wait = time.Until(s.pending[0].fireAt)
		}
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) dispatch(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("deferred action panicked",
				zap.String("action", e.name),
				zap.Any("panic", r),
			)
		}
	}()
	e.action()
}

// entryHeap is a min-heap ordered by fire time, with registration order as
// the tie-break so simultaneous actions fire in the order scheduled.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].fireAt.Equal(h[j].fireAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].fireAt.Before(h[j].fireAt)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*entry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
