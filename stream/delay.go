// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Delay shifts the items emitted from source by the given duration.
//
// Each item gets its own timer and items are delivered in the order they were
// received. Completion is shifted by the same duration and thus arrives after
// all items. Errors are forwarded immediately and drop the pending items.
//
// This differs from the RxJS 7 delay operator, which completes together with
// the last delayed item: "a-b|" delayed by 10ms is "10ms a-b|" here and
// "10ms a-(b|)" in RxJS 7.
func Delay[T any](src Observable[T], duration time.Duration, opts ...Option) Observable[T] {
	cfg := applyOptions(opts)
	if duration < 0 {
		duration = 0
	}
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			q := newTimedQueue(sub, cfg.scheduler)
			sub.Add(q.stop)
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					q.push(item, cfg.scheduler.Now().Add(duration))
				},
				Error: sub.Error,
				Complete: func() {
					q.pushComplete(cfg.scheduler.Now().Add(duration))
				},
			})
		})
}

// Throttle limits the rate at which items are emitted. Items exceeding the
// rate are held back, not dropped, and are emitted in order as tokens become
// available. The token bucket runs on the scheduler's clock.
func Throttle[T any](src Observable[T], ratePerSecond float64, burst int, opts ...Option) Observable[T] {
	cfg := applyOptions(opts)
	if burst < 1 {
		burst = 1
	}
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)
			q := newTimedQueue(sub, cfg.scheduler)
			sub.Add(q.stop)
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					now := cfg.scheduler.Now()
					r := limiter.ReserveN(now, 1)
					q.push(item, now.Add(r.DelayFrom(now)))
				},
				Error: sub.Error,
				Complete: func() {
					// Queued behind any held back items.
					q.pushComplete(cfg.scheduler.Now())
				},
			})
		})
}

type timedEntry[T any] struct {
	item     T
	due      time.Time
	complete bool
}

// timedQueue delivers items to a subscriber at their due times in FIFO
// order. Every pushed entry has its own timer. A firing timer delivers all
// entries from the front of the queue that are due, so an entry is never
// delivered before the ones pushed earlier.
type timedQueue[T any] struct {
	sub   *Subscriber[T]
	sched Scheduler

	// mu protects the fields below.
	mu        sync.Mutex
	queue     *list.List
	timers    map[uint64]func()
	nextTimer uint64
	stopped   bool

	// deliverMu serializes deliveries from timers firing on different
	// goroutines.
	deliverMu sync.Mutex
}

func newTimedQueue[T any](sub *Subscriber[T], sched Scheduler) *timedQueue[T] {
	return &timedQueue[T]{
		sub:    sub,
		sched:  sched,
		queue:  list.New(),
		timers: make(map[uint64]func()),
	}
}

func (q *timedQueue[T]) push(item T, due time.Time) {
	q.enqueue(timedEntry[T]{item: item, due: due})
}

func (q *timedQueue[T]) pushComplete(due time.Time) {
	q.enqueue(timedEntry[T]{due: due, complete: true})
}

func (q *timedQueue[T]) enqueue(entry timedEntry[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}
	q.queue.PushBack(entry)
	id := q.nextTimer
	q.nextTimer++
	q.timers[id] = q.sched.Schedule(
		entry.due.Sub(q.sched.Now()),
		func() { q.fire(id) })
}

func (q *timedQueue[T]) fire(id uint64) {
	q.mu.Lock()
	delete(q.timers, id)
	q.mu.Unlock()

	q.deliverMu.Lock()
	defer q.deliverMu.Unlock()

	for {
		entry, ok := q.popDue()
		if !ok {
			return
		}
		if entry.complete {
			q.sub.Complete()
			return
		}
		q.sub.Next(entry.item)
	}
}

func (q *timedQueue[T]) popDue() (entry timedEntry[T], ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}
	front := q.queue.Front()
	if front == nil {
		return
	}
	entry = front.Value.(timedEntry[T])
	if entry.due.After(q.sched.Now()) {
		return timedEntry[T]{}, false
	}
	q.queue.Remove(front)
	return entry, true
}

// stop cancels all pending timers and drops the queued entries.
func (q *timedQueue[T]) stop() {
	q.mu.Lock()
	q.stopped = true
	timers := q.timers
	q.timers = nil
	q.queue.Init()
	q.mu.Unlock()

	for _, cancel := range timers {
		cancel()
	}
}
