/*
 * MIT License
 *
 * Copyright (c) 2022-2024 Tochemey
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

package queue

import "sync"

// ringMinCap is the smallest backing-array size a Queue allocates. Kept a
// power of 2 so index wraparound is a bitwise mask instead of a modulus.
const ringMinCap = 16

// Queue is a condvar-backed, resizable ring buffer. FairMailbox gives each
// sender its own Queue as its FIFO sub-queue: a sender only ever needs
// Push/Pop/IsEmpty, never the broader Mailbox contract (selective receive,
// its own dispose lifecycle), so this stays a plain thread-safe queue
// rather than a Mailbox implementation in its own right.
type Queue[T any] struct {
	mu       sync.RWMutex
	notEmpty *sync.Cond
	slots    []*T
	head     int
	tail     int
	count    int
	closed   bool
}

// New returns an empty Queue with its initial ring sized at ringMinCap.
func New[T any]() *Queue[T] {
	q := &Queue[T]{slots: make([]*T, ringMinCap)}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends i to the back of the queue. Safe for concurrent callers;
// returns false and drops i if the queue has been Closed.
func (q *Queue[T]) Push(i T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	if q.count == len(q.slots) {
		q.grow()
	}
	q.slots[q.tail] = &i
	q.tail = (q.tail + 1) & (len(q.slots) - 1)
	q.count++
	q.notEmpty.Signal()
	return true
}

// Close discards every queued entry and wakes any goroutine blocked in
// Wait; Push becomes a permanent no-op afterward.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.count = 0
	q.slots = nil
	q.notEmpty.Broadcast()
}

// CloseRemaining closes the queue like Close but first drains and returns
// whatever was still queued, in order.
func (q *Queue[T]) CloseRemaining() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return []T{}
	}
	drained := make([]T, 0, q.count)
	for q.count > 0 {
		item := q.slots[q.head]
		q.head = (q.head + 1) & (len(q.slots) - 1)
		q.count--
		drained = append(drained, *item)
	}
	q.closed = true
	q.slots = nil
	q.notEmpty.Broadcast()
	return drained
}

// IsClosed reports whether Close/CloseRemaining has run. Only a "true"
// result is guaranteed not to flip back under concurrency.
func (q *Queue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Wait blocks until an entry is available, returning it immediately if one
// already is. Returns the zero value and false once the queue is Closed.
func (q *Queue[T]) Wait() (T, bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	if q.count != 0 {
		q.mu.Unlock()
		return q.Pop()
	}
	q.notEmpty.Wait()
	q.mu.Unlock()
	return q.Pop()
}

// Pop removes and returns the item at the front of the queue. false means
// either the queue was empty or it has been closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		var zero T
		return zero, false
	}
	item := q.slots[q.head]
	q.slots[q.head] = nil
	q.head = (q.head + 1) & (len(q.slots) - 1)
	q.count--
	if len(q.slots) > ringMinCap && (q.count<<2) == len(q.slots) {
		q.grow()
	}
	return *item, true
}

// Cap reports the backing array's current capacity.
func (q *Queue[T]) Cap() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return cap(q.slots)
}

// Len reports the queue's current element count.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.count
}

// IsEmpty reports whether the queue currently holds nothing.
func (q *Queue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count == 0
}

// grow resizes the backing ring, used both to expand on overflow and to
// shrink once usage falls to a quarter of capacity.
func (q *Queue[T]) grow() {
	target := q.count << 1
	if target < ringMinCap {
		target = ringMinCap
	}
	slots := make([]*T, target)
	if q.tail > q.head {
		copy(slots, q.slots[q.head:q.tail])
	} else {
		n := copy(slots, q.slots[q.head:])
		copy(slots[n:], q.slots[:q.tail])
	}
	q.tail = q.count
	q.head = 0
	q.slots = slots
}
