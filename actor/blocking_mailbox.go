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
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
)

// BlockingMailbox is the default Mailbox implementation: an unbounded,
// blocking FIFO backed by github.com/Workiva/go-datastructures/queue.Queue.
// Per 4.1/E.4 there is no default mailbox size bound; BoundedMailbox exists
// as an opt-in variant.
//
// The underlying gods.Queue only supports tail insertion, so a selective
// receive's skip buffer is held in head instead of being pushed back onto
// q: head logically sits in front of q, and every dequeue path drains it
// before touching q, which is what lets skipped envelopes rejoin the
// mailbox ahead of anything that arrived on q while they were held (4.1,
// testable property 1).
type BlockingMailbox struct {
	q    *gods.Queue
	head []*Envelope
	last *Envelope
}

// NewBlockingMailbox returns an empty BlockingMailbox.
func NewBlockingMailbox() *BlockingMailbox {
	return &BlockingMailbox{q: gods.New(int64(0))}
}

var _ Mailbox = (*BlockingMailbox)(nil)

func (m *BlockingMailbox) Enqueue(env *Envelope) {
	// Put only errors once the queue has been disposed; enqueue to a dead
	// mailbox is a legal no-op (7).
	_ = m.q.Put(env)
}

// pop removes and returns the envelope at the very front of the mailbox,
// preferring head over q since head holds whatever a prior selective
// receive skipped and restored.
func (m *BlockingMailbox) pop() (*Envelope, bool) {
	if len(m.head) > 0 {
		env := m.head[0]
		m.head = m.head[1:]
		return env, true
	}
	items, err := m.q.Get(1)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0].(*Envelope), true
}

func (m *BlockingMailbox) Dequeue() *Envelope {
	env, ok := m.pop()
	if !ok {
		return nil
	}
	m.last = env
	return env
}

// DequeueMatching implements selective receive (4.1, GLOSSARY). Envelopes
// that rules rejects are accumulated in scan order and restored ahead of
// head once a match is found, so they precede anything still unconsumed
// from this or an earlier scan.
func (m *BlockingMailbox) DequeueMatching(rules InvokeRules) *Envelope {
	var skipped []*Envelope
	for {
		env, ok := m.pop()
		if !ok {
			m.restore(skipped)
			return nil
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.last = env
			return env
		}
		skipped = append(skipped, env)
	}
}

func (m *BlockingMailbox) TryDequeue() (*Envelope, bool) {
	if len(m.head) > 0 {
		env := m.head[0]
		m.head = m.head[1:]
		m.last = env
		return env, true
	}
	// Poll blocks indefinitely on an empty queue when its timeout is not
	// positive, so emptiness is checked first.
	if m.q.Empty() {
		return nil, false
	}
	items, err := m.q.Poll(1, 0)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	env := items[0].(*Envelope)
	m.last = env
	return env, true
}

func (m *BlockingMailbox) tryPop() (*Envelope, bool) {
	if len(m.head) > 0 {
		env := m.head[0]
		m.head = m.head[1:]
		return env, true
	}
	if m.q.Empty() {
		return nil, false
	}
	items, err := m.q.Poll(1, 0)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0].(*Envelope), true
}

func (m *BlockingMailbox) TryDequeueMatching(rules InvokeRules) (*Envelope, bool) {
	var skipped []*Envelope
	for {
		env, ok := m.tryPop()
		if !ok {
			m.restore(skipped)
			return nil, false
		}
		if rules.Match(env) {
			m.restore(skipped)
			m.last = env
			return env, true
		}
		skipped = append(skipped, env)
	}
}

func (m *BlockingMailbox) TryDequeueUntil(deadline time.Time) (*Envelope, bool) {
	if len(m.head) > 0 {
		env := m.head[0]
		m.head = m.head[1:]
		m.last = env
		return env, true
	}
	wait := time.Until(deadline)
	if wait <= 0 {
		return m.TryDequeue()
	}
	items, err := m.q.Poll(1, wait)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	env := items[0].(*Envelope)
	m.last = env
	return env, true
}

func (m *BlockingMailbox) LastDequeued() *Envelope {
	return m.last
}

func (m *BlockingMailbox) IsEmpty() bool {
	return len(m.head) == 0 && m.q.Empty()
}

func (m *BlockingMailbox) Len() int64 {
	return int64(len(m.head)) + m.q.Len()
}

func (m *BlockingMailbox) Dispose() {
	m.q.Dispose()
}

// restore prepends skipped, in the order its envelopes were popped, to
// whatever is still in head so a later scan encounters them first again.
func (m *BlockingMailbox) restore(skipped []*Envelope) {
	if len(skipped) == 0 {
		return
	}
	m.head = append(skipped, m.head...)
}
