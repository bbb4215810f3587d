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

import "time"

// Mailbox defines the contract for an actor's message queue (4.1).
//
// Concurrency and ordering
//   - Enqueue MUST be thread-safe for any number of concurrent producers and
//     MUST NOT block the caller beyond brief internal synchronization.
//   - Exactly one goroutine — the actor's current executor — calls the
//     Dequeue family at a time; implementations optimize for MPSC.
//   - FIFO is preserved per sender→receiver pair: if one sender enqueues m1
//     then m2, a consumer dequeuing both sees m1 before m2. Ordering across
//     distinct senders is unspecified. Specialized mailboxes (e.g.
//     FairMailbox) may document a different cross-sender ordering.
//
// Selective receive
//   - DequeueMatching(rules) scans in arrival order, offering each envelope to
//     rules.Match. A rejected envelope is retained in a private skip buffer,
//     in order; on a match the skip buffer is re-spliced ahead of the
//     mailbox tail so no message is lost (testable property 7).
//
// Resource management
//   - Dispose releases resources and unblocks any blocked Dequeue callers.
//     After Dispose, Enqueue is a no-op and Dequeue calls return immediately
//     with a false/zero result.
//
// Memory visibility
//   - Implementations MUST ensure writes performed by a producer before
//     Enqueue are visible to the consumer after the corresponding Dequeue.
type Mailbox interface {
	// Enqueue appends env. Never blocks other enqueuers except briefly for
	// synchronization, and never fails (7): there is no way to reject a
	// message once it has been addressed to a live mailbox.
	Enqueue(env *Envelope)
	// Dequeue blocks until a message is available, returns it, and installs
	// it as LastDequeued.
	Dequeue() *Envelope
	// DequeueMatching blocks, scanning in arrival order, until rules
	// consumes an envelope (selective receive) or the mailbox is disposed.
	DequeueMatching(rules InvokeRules) *Envelope
	// TryDequeue returns (env, true) if a message was immediately
	// available, or (nil, false) without blocking otherwise.
	TryDequeue() (*Envelope, bool)
	// TryDequeueMatching is the non-blocking counterpart of
	// DequeueMatching.
	TryDequeueMatching(rules InvokeRules) (*Envelope, bool)
	// TryDequeueUntil blocks at most until deadline, used by the
	// timed-delivery actor's main loop (4.3 step 3).
	TryDequeueUntil(deadline time.Time) (*Envelope, bool)
	// LastDequeued returns the envelope most recently returned by any
	// Dequeue variant. Stable until the next successful dequeue; Reply
	// freezes the sender captured here at dequeue time (testable
	// property 8).
	LastDequeued() *Envelope
	// IsEmpty reports whether the mailbox currently has no messages. A
	// best-effort snapshot under concurrency.
	IsEmpty() bool
	// Len returns a snapshot count of queued messages for observability.
	// MAY be approximate under concurrency.
	Len() int64
	// Dispose releases resources and unblocks any waiters. The mailbox
	// MUST NOT be used after Dispose returns.
	Dispose()
}
