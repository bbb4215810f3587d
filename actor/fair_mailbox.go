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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relaycore/actorcore/internal/queue"
)

// FairMailbox is an unbounded, fair MPSC mailbox for actors that prevents a hot
// sender from monopolizing the receiver. It achieves fairness by routing each
// sender to a dedicated sub-queue and serving active senders in round-robin.
//
// This is not the default Mailbox (BlockingMailbox is, per E.4); the core's
// own ordering guarantee (5) only requires per-pair FIFO and leaves
// cross-sender ordering unspecified, but a caller that wants cross-sender
// fairness as a documented, non-default policy can opt into this one.
//
// Design
//   - Per-sender sub-queues: each distinct sender is assigned a sub-queue
//     that preserves FIFO ordering for that sender's messages.
//   - Active senders queue: when a sender transitions from empty to
//     non-empty, it is added to a global queue of "active senders". The
//     single consumer dequeues exactly one message per active sender
//     (round-robin) and re-queues the sender if more messages remain,
//     preventing starvation.
type FairMailbox struct {
	// map of sender key -> per-sender queue
	senders sync.Map // map[string]*senderQ

	// queue of active senders, served round-robin by the single consumer
	active *queue.Linked[*senderQ]

	length   int64
	disposed atomic.Bool
	lastEnv  atomic.Pointer[Envelope]
}

// enforce compilation error when interface contract changes
var _ Mailbox = (*FairMailbox)(nil)

// senderQ wraps a per-sender FIFO and an active flag to avoid duplicate
// entries in the active senders queue. It uses the condvar-backed Queue
// rather than a full Mailbox: a sub-queue only ever needs Push/Pop/IsEmpty,
// never selective receive or its own dispose lifecycle.
//
// head holds this sender's envelopes that a selective receive popped and
// didn't match, restored ahead of q. Only the single mailbox consumer ever
// reads or writes head, so it needs no locking of its own.
type senderQ struct {
	q      *queue.Queue[*Envelope]
	head   []*Envelope
	active atomic.Bool
}

// pop removes and returns the envelope at the front of this sender's
// stream, draining head (restored-but-unmatched envelopes) before q.
func (sq *senderQ) pop() (*Envelope, bool) {
	if len(sq.head) > 0 {
		env := sq.head[0]
		sq.head = sq.head[1:]
		return env, true
	}
	return sq.q.Pop()
}

func (sq *senderQ) isEmpty() bool {
	return len(sq.head) == 0 && sq.q.IsEmpty()
}

// prepend restores envs, in the order they were popped, ahead of whatever
// remains in head so a later scan encounters them first again.
func (sq *senderQ) prepend(envs []*Envelope) {
	sq.head = append(envs, sq.head...)
}

// NewFairMailbox creates a new FairMailbox.
//
// The mailbox is unbounded: it grows with the number of messages and active
// senders. Choose this mailbox when fairness across senders is more important
// than absolute peak throughput of a single FIFO.
func NewFairMailbox() *FairMailbox {
	return &FairMailbox{active: queue.NewLinked[*senderQ]()}
}

// Enqueue pushes env into the mailbox.
//
// Semantics
//   - Per-sender FIFO: messages from the same sender are delivered in order.
//   - Activation: the first message into an empty sub-queue marks the sender
//     active and enqueues it into the active-senders queue for round-robin
//     service.
func (m *FairMailbox) Enqueue(env *Envelope) {
	if m.disposed.Load() {
		return
	}
	key := deriveSenderKey(env)
	var sq *senderQ
	if v, ok := m.senders.Load(key); ok {
		sq = v.(*senderQ)
	} else {
		nsq := &senderQ{q: queue.New[*Envelope]()}
		if actual, loaded := m.senders.LoadOrStore(key, nsq); loaded {
			sq = actual.(*senderQ)
		} else {
			sq = nsq
		}
	}

	sq.q.Push(env)
	atomic.AddInt64(&m.length, 1)

	// attempt to activate this sender when transitioning from inactive
	if sq.active.CompareAndSwap(false, true) {
		m.active.Push(sq)
	}
}

// tryPopFrom fetches one message from the next active sender in
// round-robin order, or returns ok=false if no active sender currently has
// anything. Must be called by exactly one goroutine (the actor's receiver
// loop). It also returns the senderQ the envelope came from, so a
// selective receive can restore a skipped envelope to the same sender's
// head instead of losing its place relative to that sender's other
// messages.
func (m *FairMailbox) tryPopFrom() (*Envelope, *senderQ, bool) {
	for {
		sq, ok := m.active.Pop()
		if !ok {
			return nil, nil, false
		}

		env, ok := sq.pop()
		if !ok {
			// per-sender queue was drained concurrently; mark inactive and
			// try the next active sender instead of returning nil early.
			sq.active.Store(false)
			continue
		}

		atomic.AddInt64(&m.length, -1)

		if !sq.isEmpty() {
			m.active.Push(sq)
		} else {
			sq.active.Store(false)
		}
		return env, sq, true
	}
}

func (m *FairMailbox) tryPop() *Envelope {
	env, _, ok := m.tryPopFrom()
	if !ok {
		return nil
	}
	return env
}

func (m *FairMailbox) waitForEnvelopeFrom() (*Envelope, *senderQ, bool) {
	for i := 0; ; i++ {
		if env, sq, ok := m.tryPopFrom(); ok {
			return env, sq, true
		}
		if m.disposed.Load() {
			return nil, nil, false
		}
		switch {
		case i < aggressivePollIterations:
		case i < aggressivePollIterations*10:
			time.Sleep(time.Microsecond)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (m *FairMailbox) waitForEnvelope() *Envelope {
	env, _, ok := m.waitForEnvelopeFrom()
	if !ok {
		return nil
	}
	return env
}

func (m *FairMailbox) Dequeue() *Envelope {
	env := m.waitForEnvelope()
	if env != nil {
		m.lastEnv.Store(env)
	}
	return env
}

// DequeueMatching implements selective receive. A rejected envelope is
// tracked per originating sender instead of in one shared slice, so
// restoring it back onto that sender's own head preserves per-sender FIFO
// (5, testable property 1) even though tryPopFrom interleaves different
// senders round-robin; cross-sender ordering stays unspecified either way.
func (m *FairMailbox) DequeueMatching(rules InvokeRules) *Envelope {
	skipped := make(map[*senderQ][]*Envelope)
	for {
		env, sq, ok := m.waitForEnvelopeFrom()
		if !ok {
			m.restore(skipped)
			return nil
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.lastEnv.Store(env)
			return env
		}
		skipped[sq] = append(skipped[sq], env)
	}
}

func (m *FairMailbox) TryDequeue() (*Envelope, bool) {
	env := m.tryPop()
	if env != nil {
		m.lastEnv.Store(env)
	}
	return env, env != nil
}

func (m *FairMailbox) TryDequeueMatching(rules InvokeRules) (*Envelope, bool) {
	skipped := make(map[*senderQ][]*Envelope)
	for {
		env, sq, ok := m.tryPopFrom()
		if !ok {
			m.restore(skipped)
			return nil, false
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.lastEnv.Store(env)
			return env, true
		}
		skipped[sq] = append(skipped[sq], env)
	}
}

func (m *FairMailbox) TryDequeueUntil(deadline time.Time) (*Envelope, bool) {
	for {
		if env := m.tryPop(); env != nil {
			m.lastEnv.Store(env)
			return env, true
		}
		if m.disposed.Load() || !time.Now().Before(deadline) {
			return nil, false
		}
		time.Sleep(time.Millisecond)
	}
}

// restore puts each sender's skipped envelopes back at the front of that
// sender's own sub-queue and reactivates it if needed, rather than
// re-deriving sender keys through Enqueue.
func (m *FairMailbox) restore(skipped map[*senderQ][]*Envelope) {
	for sq, envs := range skipped {
		sq.prepend(envs)
		atomic.AddInt64(&m.length, int64(len(envs)))
		if sq.active.CompareAndSwap(false, true) {
			m.active.Push(sq)
		}
	}
}

func (m *FairMailbox) LastDequeued() *Envelope {
	return m.lastEnv.Load()
}

// IsEmpty reports whether the mailbox currently has no messages.
//
// This is an O(1) snapshot based on an atomic counter and is best-effort under
// concurrency. It is intended for observability and fast checks, not for hard
// synchronization.
func (m *FairMailbox) IsEmpty() bool {
	return atomic.LoadInt64(&m.length) == 0
}

// Len returns an approximate number of messages across all sub-queues.
//
// The value is maintained as an atomic counter and may be approximate under
// concurrency. Use for metrics/observability rather than coordination.
func (m *FairMailbox) Len() int64 {
	return atomic.LoadInt64(&m.length)
}

// Dispose marks the mailbox disposed, unblocking any waiter spinning in
// Dequeue/DequeueMatching/TryDequeueUntil, and closes every per-sender
// sub-queue so their own Pop calls stop returning stale entries.
// Already-enqueued messages are dropped without being delivered.
func (m *FairMailbox) Dispose() {
	m.disposed.Store(true)
	m.senders.Range(func(_, v any) bool {
		v.(*senderQ).q.Close()
		return true
	})
}

func deriveSenderKey(env *Envelope) string {
	if env.Sender != nil {
		return fmt.Sprintf("pid:%s", env.Sender.ID())
	}
	return "nosender"
}
