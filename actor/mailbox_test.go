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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mailboxFactories covers every Mailbox implementation so the FIFO,
// selective-receive, and dispose contracts in mailbox.go are verified once
// per implementation instead of per-file.
func mailboxFactories() map[string]func() Mailbox {
	return map[string]func() Mailbox{
		"BlockingMailbox": func() Mailbox { return NewBlockingMailbox() },
		"DefaultMailbox":  func() Mailbox { return NewDefaultMailbox() },
		"FairMailbox":     func() Mailbox { return NewFairMailbox() },
		"BoundedMailbox":  func() Mailbox { return NewBoundedMailbox(64) },
	}
}

func TestMailboxFIFOPerSender(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			sender := NewControlBlock()
			defer sender.Quit(ReasonNormal)

			for i := 0; i < 10; i++ {
				mb.Enqueue(NewEnvelope(sender.Channel(), nil, i))
			}

			for i := 0; i < 10; i++ {
				env := mb.Dequeue()
				require.NotNil(t, env)
				assert.Equal(t, i, env.Payload)
			}
		})
	}
}

func TestMailboxTryDequeueOnEmpty(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			_, ok := mb.TryDequeue()
			assert.False(t, ok)
			assert.True(t, mb.IsEmpty())
		})
	}
}

// TestMailboxSelectiveReceivePreservesOrder checks testable property 7: the
// envelopes a selective receive skips come back out in their original
// relative order. Every mailbox here restores the skip buffer ahead of
// whatever is still queued, so skip-1 and skip-2 come out before any
// envelope that followed the match.
func TestMailboxSelectiveReceivePreservesOrder(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			mb.Enqueue(NewEnvelope(nil, nil, "skip-1"))
			mb.Enqueue(NewEnvelope(nil, nil, "skip-2"))
			mb.Enqueue(NewEnvelope(nil, nil, "match"))

			matched := mb.DequeueMatching(RuleFunc(func(env *Envelope) bool {
				return env.Payload == "match"
			}))
			require.NotNil(t, matched)
			assert.Equal(t, "match", matched.Payload)

			var remaining []any
			for i := 0; i < 2; i++ {
				env := mb.Dequeue()
				require.NotNil(t, env)
				remaining = append(remaining, env.Payload)
			}
			assert.Equal(t, []any{"skip-1", "skip-2"}, remaining)
		})
	}
}

// TestMailboxSelectiveReceiveRestoresAheadOfLaterArrivals is the worked
// example from spec.md 8: enqueue 1, "a", 2, "b"; DequeueMatching(int) twice
// returns 1 then 2, leaving "a" skipped-then-restored ahead of "b", which
// was still queued behind the second match at restore time. A tail-append
// of the skip buffer would instead yield "b" before "a".
func TestMailboxSelectiveReceiveRestoresAheadOfLaterArrivals(t *testing.T) {
	isInt := RuleFunc(func(env *Envelope) bool {
		_, ok := env.Payload.(int)
		return ok
	})
	isString := RuleFunc(func(env *Envelope) bool {
		_, ok := env.Payload.(string)
		return ok
	})

	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			mb.Enqueue(NewEnvelope(nil, nil, 1))
			mb.Enqueue(NewEnvelope(nil, nil, "a"))
			mb.Enqueue(NewEnvelope(nil, nil, 2))
			mb.Enqueue(NewEnvelope(nil, nil, "b"))

			first := mb.DequeueMatching(isInt)
			require.NotNil(t, first)
			assert.Equal(t, 1, first.Payload)

			second := mb.DequeueMatching(isInt)
			require.NotNil(t, second)
			assert.Equal(t, 2, second.Payload)

			third := mb.DequeueMatching(isString)
			require.NotNil(t, third)
			assert.Equal(t, "a", third.Payload, "skipped envelope must be restored ahead of later arrivals")

			fourth := mb.Dequeue()
			require.NotNil(t, fourth)
			assert.Equal(t, "b", fourth.Payload)
		})
	}
}

func TestMailboxTryDequeueUntilDeadline(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			start := time.Now()
			_, ok := mb.TryDequeueUntil(start.Add(20 * time.Millisecond))
			assert.False(t, ok)
			assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		})
	}
}

func TestMailboxDisposeUnblocksWaiters(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			done := make(chan *Envelope, 1)
			go func() { done <- mb.Dequeue() }()

			time.Sleep(10 * time.Millisecond)
			mb.Dispose()

			select {
			case env := <-done:
				assert.Nil(t, env)
			case <-time.After(time.Second):
				t.Fatal("Dequeue did not unblock after Dispose")
			}
		})
	}
}

func TestMailboxLastDequeued(t *testing.T) {
	for name, newMailbox := range mailboxFactories() {
		t.Run(name, func(t *testing.T) {
			mb := newMailbox()
			assert.Nil(t, mb.LastDequeued())
			mb.Enqueue(NewEnvelope(nil, nil, "only"))
			env := mb.Dequeue()
			assert.Same(t, env, mb.LastDequeued())
		})
	}
}
