// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"container/heap"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Scheduler is the timer service used by time-based operators.
type Scheduler interface {
	// Now returns the current time of the scheduler's clock.
	Now() time.Time

	// Schedule runs 'action' once after 'delay'. The returned function
	// cancels the action if it has not yet run. Calling it more than once
	// is harmless.
	Schedule(delay time.Duration, action func()) (cancel func())
}

type realScheduler struct{}

// RealScheduler returns the scheduler backed by the wall clock. Actions run
// on their own goroutines.
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Now() time.Time {
	return time.Now()
}

func (realScheduler) Schedule(delay time.Duration, action func()) func() {
	timer := time.AfterFunc(delay, action)
	return func() { timer.Stop() }
}

// VirtualEpoch is the initial time of a VirtualScheduler.
var VirtualEpoch = time.Unix(0, 0).UTC()

// VirtualScheduler is a deterministic scheduler whose clock only moves when
// told to. Actions run synchronously from AdvanceBy, AdvanceTo and Flush in
// order of due time, and in order of scheduling when due at the same time.
type VirtualScheduler struct {
	log *slog.Logger

	mu      sync.Mutex
	now     time.Time
	seq     uint64
	actions actionQueue
	pending int
}

var _ Scheduler = &VirtualScheduler{}

// NewVirtualScheduler returns a virtual scheduler starting at VirtualEpoch.
// A nil logger discards.
func NewVirtualScheduler(log *slog.Logger) *VirtualScheduler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &VirtualScheduler{log: log, now: VirtualEpoch}
}

func (v *VirtualScheduler) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Elapsed returns the virtual time passed since VirtualEpoch.
func (v *VirtualScheduler) Elapsed() time.Duration {
	return v.Now().Sub(VirtualEpoch)
}

func (v *VirtualScheduler) Schedule(delay time.Duration, action func()) func() {
	if delay < 0 {
		delay = 0
	}
	v.mu.Lock()
	a := &scheduledAction{
		due:    v.now.Add(delay),
		seq:    v.seq,
		action: action,
	}
	v.seq++
	v.pending++
	heap.Push(&v.actions, a)
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if !a.cancelled && !a.done {
			a.cancelled = true
			v.pending--
		}
	}
}

// Pending returns the number of actions that have neither run nor been
// cancelled.
func (v *VirtualScheduler) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

// AdvanceBy moves the clock forward by 'd', running every action that falls
// due on the way.
func (v *VirtualScheduler) AdvanceBy(d time.Duration) {
	v.AdvanceTo(v.Now().Add(d))
}

// AdvanceTo moves the clock to 't', running every action due at or before it.
// Actions scheduled by running actions are included if they fall due before
// 't'. The clock never moves backwards.
func (v *VirtualScheduler) AdvanceTo(t time.Time) {
	for {
		a := v.popDue(t, true)
		if a == nil {
			break
		}
		v.run(a)
	}
	v.mu.Lock()
	if t.After(v.now) {
		v.now = t
	}
	v.mu.Unlock()
}

// Flush runs actions until none are pending, moving the clock to the due time
// of each. An action that keeps rescheduling itself makes Flush loop forever;
// use AdvanceBy for such sources.
func (v *VirtualScheduler) Flush() {
	for {
		a := v.popDue(time.Time{}, false)
		if a == nil {
			return
		}
		v.run(a)
	}
}

// popDue removes the next live action. If 'bounded' is set only actions due
// at or before 'limit' are returned.
func (v *VirtualScheduler) popDue(limit time.Time, bounded bool) *scheduledAction {
	v.mu.Lock()
	defer v.mu.Unlock()
	for v.actions.Len() > 0 {
		next := v.actions[0]
		if next.cancelled {
			heap.Pop(&v.actions)
			continue
		}
		if bounded && next.due.After(limit) {
			return nil
		}
		heap.Pop(&v.actions)
		next.done = true
		v.pending--
		if next.due.After(v.now) {
			v.now = next.due
		}
		return next
	}
	return nil
}

func (v *VirtualScheduler) run(a *scheduledAction) {
	v.log.Debug("Running scheduled action",
		"at", a.due.Sub(VirtualEpoch),
		"seq", a.seq)
	a.action()
}

type scheduledAction struct {
	due       time.Time
	seq       uint64
	action    func()
	cancelled bool
	done      bool
}

// actionQueue is a min-heap of actions ordered by due time and sequence.
type actionQueue []*scheduledAction

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *actionQueue) Push(x any) {
	*q = append(*q, x.(*scheduledAction))
}

func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return a
}
