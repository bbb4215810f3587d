/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"sync/atomic"
	"time"

	"github.com/relaycore/actorcore/internal/queue"
)

// DefaultMailbox is an unbounded, lock-free alternate Mailbox implementation
// backed by internal/queue's generic MpscQueue.
//
// Concurrency model:
//   - Multi-Producer, Single-Consumer (MPSC): many goroutines may call Enqueue
//     concurrently, but exactly one goroutine must call any Dequeue variant.
//
// Characteristics:
//   - FIFO ordering across all producers.
//   - The underlying queue has no blocking primitive, so the blocking
//     Dequeue family spins with a short aggressive/relaxed backoff
//     (mirroring the scheduler's own polling tiers) until a node appears or
//     Dispose is called.
//
// This is not the default Mailbox (BlockingMailbox is); it exists for
// callers that want a lock-free queue and can tolerate backoff-based
// blocking instead of a condition variable.
type DefaultMailbox struct {
	q    *queue.MpscQueue[*Envelope]
	// head holds envelopes a selective receive skipped and restored, ahead
	// of q. Only the single consumer goroutine ever touches it, same as
	// every Dequeue variant below, so it needs no synchronization of its
	// own.
	head     []*Envelope
	last     atomic.Pointer[Envelope]
	disposed atomic.Bool
}

// enforce compilation error when interface contract changes
var _ Mailbox = (*DefaultMailbox)(nil)

// NewDefaultMailbox creates and initializes a DefaultMailbox instance.
func NewDefaultMailbox() *DefaultMailbox {
	return &DefaultMailbox{q: queue.NewMpscQueue[*Envelope]()}
}

// Enqueue places the given value in the mailbox. Never blocks the caller
// beyond the queue's internal swap; safe for concurrent calls by multiple
// producers.
func (m *DefaultMailbox) Enqueue(env *Envelope) {
	if m.disposed.Load() {
		return
	}
	m.q.Push(env)
}

func (m *DefaultMailbox) tryPop() *Envelope {
	if len(m.head) > 0 {
		env := m.head[0]
		m.head = m.head[1:]
		return env
	}
	env, ok := m.q.Pop()
	if !ok {
		return nil
	}
	return env
}

// aggressivePollIterations bounds the pure-spin phase of a blocking wait,
// matching the thread-pool scheduler's aggressive-polling tier (E.3). Also
// used by FairMailbox, which shares this package.
const aggressivePollIterations = 100

func (m *DefaultMailbox) waitForEnvelope() *Envelope {
	for i := 0; ; i++ {
		if env := m.tryPop(); env != nil {
			return env
		}
		if m.disposed.Load() {
			return nil
		}
		switch {
		case i < aggressivePollIterations:
			// aggressive: pure spin
		case i < aggressivePollIterations*10:
			time.Sleep(time.Microsecond)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// Dequeue removes and returns the value at the head of the mailbox,
// blocking until one is available or the mailbox is disposed.
// Must be called by a single consumer goroutine.
func (m *DefaultMailbox) Dequeue() *Envelope {
	env := m.waitForEnvelope()
	if env != nil {
		m.last.Store(env)
	}
	return env
}

// DequeueMatching implements selective receive on top of the lock-free
// queue: rejected envelopes are popped into a skip buffer and restored
// ahead of head, in order, once a match is found or the scan is abandoned
// on dispose.
func (m *DefaultMailbox) DequeueMatching(rules InvokeRules) *Envelope {
	var skipped []*Envelope
	for {
		env := m.waitForEnvelope()
		if env == nil {
			m.restore(skipped)
			return nil
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.last.Store(env)
			return env
		}
		skipped = append(skipped, env)
	}
}

func (m *DefaultMailbox) TryDequeue() (*Envelope, bool) {
	env := m.tryPop()
	if env == nil {
		return nil, false
	}
	m.last.Store(env)
	return env, true
}

func (m *DefaultMailbox) TryDequeueMatching(rules InvokeRules) (*Envelope, bool) {
	var skipped []*Envelope
	for {
		env := m.tryPop()
		if env == nil {
			m.restore(skipped)
			return nil, false
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.last.Store(env)
			return env, true
		}
		skipped = append(skipped, env)
	}
}

func (m *DefaultMailbox) TryDequeueUntil(deadline time.Time) (*Envelope, bool) {
	for {
		if env := m.tryPop(); env != nil {
			m.last.Store(env)
			return env, true
		}
		if m.disposed.Load() || !time.Now().Before(deadline) {
			return nil, false
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *DefaultMailbox) LastDequeued() *Envelope {
	return m.last.Load()
}

// Len returns the queue's own atomic message count plus anything held in
// head.
func (m *DefaultMailbox) Len() int64 {
	return int64(len(m.head)) + m.q.Len()
}

// IsEmpty returns true when the mailbox is empty.
func (m *DefaultMailbox) IsEmpty() bool {
	return len(m.head) == 0 && m.q.IsEmpty()
}

// Dispose marks the mailbox disposed, unblocking any waiter spinning in
// Dequeue/DequeueMatching/TryDequeueUntil.
func (m *DefaultMailbox) Dispose() {
	m.disposed.Store(true)
}

// restore prepends skipped, in the order its envelopes were popped, ahead
// of whatever remains in head.
func (m *DefaultMailbox) restore(skipped []*Envelope) {
	if len(skipped) == 0 {
		return
	}
	m.head = append(skipped, m.head...)
}
