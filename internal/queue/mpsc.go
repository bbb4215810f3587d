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

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// mpscLink is one slot in the intrusive singly-linked list MpscQueue walks;
// the queue never allocates a separate node type per element beyond this.
type mpscLink[T any] struct {
	value T
	next  *mpscLink[T]
}

// MpscQueue backs DefaultMailbox, the lock-free alternate to
// BlockingMailbox's condvar-based gods.Queue: many goroutines enqueue
// envelopes concurrently (Enqueue never blocks beyond a single pointer
// swap), and exactly one goroutine — the mailbox's own consumer — ever
// pops them.
type MpscQueue[T any] struct {
	head   *mpscLink[T]
	tail   *mpscLink[T]
	count  int64
	tailMu sync.Mutex
}

// NewMpscQueue returns an empty MpscQueue ready for concurrent producers
// and a single consumer.
func NewMpscQueue[T any]() *MpscQueue[T] {
	sentinel := new(mpscLink[T])
	return &MpscQueue[T]{head: sentinel, tail: sentinel}
}

// Push enqueues value. Safe to call from any number of producer goroutines
// concurrently; always succeeds.
func (q *MpscQueue[T]) Push(value T) bool {
	link := &mpscLink[T]{value: value}
	prevHead := (*mpscLink[T])(atomic.SwapPointer((*unsafe.Pointer)(unsafe.Pointer(&q.head)), unsafe.Pointer(link)))
	atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(&prevHead.next)), unsafe.Pointer(link))
	atomic.AddInt64(&q.count, 1)
	return true
}

// Pop removes and returns the oldest enqueued value. Must only be called
// by the mailbox's single consumer goroutine; concurrent callers would
// race on advancing tail.
func (q *MpscQueue[T]) Pop() (T, bool) {
	var zero T
	next := (*mpscLink[T])(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&q.tail.next))))
	if next == nil {
		return zero, false
	}

	q.tailMu.Lock()
	q.tail = next
	q.tailMu.Unlock()

	value := next.value
	next.value = zero
	atomic.AddInt64(&q.count, -1)
	return value, true
}

// Len reports the queue's current element count.
func (q *MpscQueue[T]) Len() int64 {
	return atomic.LoadInt64(&q.count)
}

// IsEmpty reports whether the queue currently has nothing to pop. Intended
// for the same single consumer goroutine that calls Pop.
func (q *MpscQueue[T]) IsEmpty() bool {
	q.tailMu.Lock()
	tail := q.tail
	q.tailMu.Unlock()
	return (*mpscLink[T])(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&tail.next)))) == nil
}
