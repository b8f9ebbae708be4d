// Package scheduler runs deferred tasks on a single worker goroutine.
//
// Tasks fire in (due, seq) order: two tasks with the same due time run in the
// order they were scheduled. There is no per-task cancellation; Close drops
// everything still pending.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"

	"genie/observability"
)

var ErrClosed = errors.New("scheduler: closed")

// Task runs on the worker goroutine. ctx is cancelled when the scheduler
// closes.
type Task func(ctx context.Context)

type entry struct {
	due  time.Time
	seq  uint64
	task Task
}

type queue []*entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(*entry)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler owns one worker goroutine started by New.
type Scheduler struct {
	mu     sync.Mutex
	q      queue
	seq    uint64
	closed bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a scheduler whose lifetime is bounded by parent.
func New(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Schedule queues task to run after delay and returns its sequence number.
// A non-positive delay runs the task as soon as the worker is free.
func (s *Scheduler) Schedule(delay time.Duration, task Task) (uint64, error) {
	if task == nil {
		return 0, errors.New("scheduler: nil task")
	}
	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	seq := s.seq
	heap.Push(&s.q, &entry{due: time.Now().Add(delay), seq: seq, task: task})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return seq, nil
}

// Pending returns the number of tasks not yet started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.q)
}

// Close cancels pending tasks and waits for a running task to return. It must
// not be called from inside a task.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.q = nil
	s.mu.Unlock()

	s.cancel()
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		s.mu.Lock()
		if len(s.q) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.ctx.Done():
				return
			}
		}

		next := s.q[0]
		wait := time.Until(next.due)
		if wait <= 0 {
			heap.Pop(&s.q)
			s.mu.Unlock()
			if s.ctx.Err() != nil {
				return
			}
			s.exec(next)
			continue
		}
		s.mu.Unlock()

		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) exec(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			observability.Logger().Error("scheduled task panicked", "seq", e.seq, "panic", r)
		}
	}()
	e.task(s.ctx)
}
