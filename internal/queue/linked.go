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

import "sync/atomic"

// activeLink is one entry in the lock-free list Linked walks via CAS.
type activeLink[T any] struct {
	value T
	next  atomic.Pointer[activeLink[T]]
}

// Linked is a lock-free FIFO. FairMailbox uses one as its ring of
// currently-active senders: Push adds a sender the instant its sub-queue
// goes from empty to non-empty, and the mailbox's single consumer Pops one
// sender per round to serve round-robin.
type Linked[T any] struct {
	head, tail atomic.Pointer[activeLink[T]]
}

// NewLinked returns an empty Linked queue.
func NewLinked[T any]() *Linked[T] {
	sentinel := new(activeLink[T])
	l := new(Linked[T])
	l.head.Store(sentinel)
	l.tail.Store(sentinel)
	return l
}

// Push appends value to the back of the queue. Safe for concurrent callers.
func (l *Linked[T]) Push(value T) {
	link := &activeLink[T]{value: value}
	var tail *activeLink[T]
	for done := false; !done; {
		tail = l.tail.Load()
		tailNext := tail.next.Load()
		if tailNext != nil {
			// another pusher advanced tail already; help it along
			l.tail.CompareAndSwap(tail, tailNext)
			continue
		}
		done = l.tail.Load().next.CompareAndSwap(tailNext, link)
	}
	l.tail.CompareAndSwap(tail, link)
}

// Pop removes and returns the value at the front of the queue. false means
// the queue was empty.
func (l *Linked[T]) Pop() (T, bool) {
	var newHead *activeLink[T]
	for done := false; !done; {
		head, tail := l.head.Load(), l.tail.Load()
		newHead = head.next.Load()
		if head == tail {
			if newHead == nil {
				return *new(T), false
			}
			// tail lags behind an in-flight Push; help it along
			l.tail.CompareAndSwap(tail, newHead)
			continue
		}
		done = l.head.CompareAndSwap(head, newHead)
	}
	return newHead.value, true
}

// Peek returns the value at the front of the queue without removing it.
// The caller must already know the queue is non-empty.
func (l *Linked[T]) Peek() T {
	return l.head.Load().next.Load().value
}

// IsEmpty reports whether the queue currently holds nothing.
func (l *Linked[T]) IsEmpty() bool {
	return l.head.Load().next.Load() == nil
}
