// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
)

// BoundedMailbox is a bounded, blocking MPSC mailbox backed by a ring
// buffer. Per E.4 it is never the default (BlockingMailbox is); use it when
// a caller wants strict backpressure instead of an unbounded queue.
//
// Characteristics
// - Bounded capacity: the queue has a fixed size.
// - Blocking semantics:
//   - Enqueue blocks when the mailbox is full until space becomes available
//     or the mailbox is disposed.
//   - Dequeue blocks when the mailbox is empty until a message is available
//     or the mailbox is disposed.
//
// - Concurrency: safe for multiple producers (MPSC) and a single consumer.
// - FIFO ordering: messages are dequeued in the order they were enqueued.
//
// A selective receive's skip buffer is held in head rather than reinserted
// into the ring buffer: head logically sits in front of the buffer, so
// every dequeue path drains it first, which is what keeps a skipped
// envelope ahead of anything enqueued afterward (4.1, testable property 1).
type BoundedMailbox struct {
	underlying *gods.RingBuffer
	head       []*Envelope
	last       *Envelope
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a new bounded, blocking mailbox with the given
// capacity. Capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts env into the mailbox, blocking when full until space is
// available or the mailbox is disposed. Safe for concurrent producers.
func (mailbox *BoundedMailbox) Enqueue(env *Envelope) {
	_ = mailbox.underlying.Put(env)
}

// pop removes and returns the envelope at the very front of the mailbox,
// draining head before the ring buffer.
func (mailbox *BoundedMailbox) pop() (*Envelope, bool) {
	if len(mailbox.head) > 0 {
		env := mailbox.head[0]
		mailbox.head = mailbox.head[1:]
		return env, true
	}
	item, err := mailbox.underlying.Get()
	if err != nil {
		return nil, false
	}
	env, _ := item.(*Envelope)
	return env, true
}

// Dequeue removes and returns the next message, blocking while the mailbox
// is empty until one arrives or the mailbox is disposed.
func (mailbox *BoundedMailbox) Dequeue() *Envelope {
	env, ok := mailbox.pop()
	if !ok {
		return nil
	}
	mailbox.last = env
	return env
}

// DequeueMatching implements selective receive: rejected envelopes are
// accumulated in scan order and restored ahead of head once a match is
// found or the underlying buffer is disposed mid-scan.
func (mailbox *BoundedMailbox) DequeueMatching(rules InvokeRules) *Envelope {
	var skipped []*Envelope
	for {
		env, ok := mailbox.pop()
		if !ok {
			mailbox.restore(skipped)
			return nil
		}
		if rules.Match(env) {
			mailbox.restore(skipped)
			mailbox.last = env
			return env
		}
		skipped = append(skipped, env)
	}
}

// TryDequeue returns the next message without blocking when one is
// immediately available. The emptiness check and the pop are not atomic, so
// under concurrent producers this is a best-effort approximation, same as
// IsEmpty/Len (4.1).
func (mailbox *BoundedMailbox) TryDequeue() (*Envelope, bool) {
	if len(mailbox.head) == 0 && mailbox.underlying.Len() == 0 {
		return nil, false
	}
	env, ok := mailbox.pop()
	if !ok {
		return nil, false
	}
	mailbox.last = env
	return env, true
}

func (mailbox *BoundedMailbox) TryDequeueMatching(rules InvokeRules) (*Envelope, bool) {
	var skipped []*Envelope
	for len(mailbox.head) > 0 || mailbox.underlying.Len() > 0 {
		env, ok := mailbox.pop()
		if !ok {
			mailbox.restore(skipped)
			return nil, false
		}
		if rules.Match(env) {
			mailbox.restore(skipped)
			mailbox.last = env
			return env, true
		}
		skipped = append(skipped, env)
	}
	mailbox.restore(skipped)
	return nil, false
}

func (mailbox *BoundedMailbox) TryDequeueUntil(deadline time.Time) (*Envelope, bool) {
	if len(mailbox.head) > 0 {
		env := mailbox.head[0]
		mailbox.head = mailbox.head[1:]
		mailbox.last = env
		return env, true
	}
	// Poll blocks indefinitely when its timeout is not positive, so a
	// deadline that has already passed falls back to TryDequeue.
	wait := time.Until(deadline)
	if wait <= 0 {
		return mailbox.TryDequeue()
	}
	item, err := mailbox.underlying.Poll(wait)
	if err != nil {
		return nil, false
	}
	env, _ := item.(*Envelope)
	mailbox.last = env
	return env, true
}

func (mailbox *BoundedMailbox) LastDequeued() *Envelope {
	return mailbox.last
}

// IsEmpty reports whether the mailbox currently has no messages.
// This check is a snapshot and may change immediately under concurrency.
func (mailbox *BoundedMailbox) IsEmpty() bool {
	return len(mailbox.head) == 0 && mailbox.underlying.Len() == 0
}

// Len returns the current number of messages in the mailbox.
// The value is a snapshot and may change immediately after the call under
// concurrency.
func (mailbox *BoundedMailbox) Len() int64 {
	return int64(len(mailbox.head)) + int64(mailbox.underlying.Len())
}

// Dispose releases resources held by the underlying ring buffer and unblocks
// any internal waiters maintained by it. Do not use the mailbox after
// calling Dispose.
func (mailbox *BoundedMailbox) Dispose() {
	mailbox.underlying.Dispose()
}

// restore prepends skipped, in the order its envelopes were popped, ahead
// of whatever remains in head.
func (mailbox *BoundedMailbox) restore(skipped []*Envelope) {
	if len(skipped) == 0 {
		return
	}
	mailbox.head = append(skipped, mailbox.head...)
}
