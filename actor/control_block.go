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
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/relaycore/actorcore/log"
)

// ControlBlock is an actor's control block (3): identity, mailbox, current
// message, link set, attached observers, and lifecycle/termination state.
// It is shared by reference between any number of senders and the
// scheduler; release is deferred until both the last external reference is
// gone and the actor has terminated (5).
//
// Scheduling bookkeeping (runnable/executing/blocked) deliberately does NOT
// live here: it is the scheduler package's concern, tracked in its own
// per-actor wrapper, keeping ControlBlock free of scheduler internals.
type ControlBlock struct {
	id     ID
	hidden bool
	logger log.Logger

	mailbox Mailbox
	current atomic.Pointer[Envelope]

	links mapset.Set[ID]

	attachMu    sync.Mutex
	attachables []Attachable

	behavior atomic.Pointer[Behavior]

	terminated atomic.Bool
	reason     atomic.Uint32
	trapExits  atomic.Bool

	// onRunnable is invoked by deliver whenever the mailbox transitions
	// from empty to non-empty; the scheduler installs this at spawn time
	// to mark the actor runnable without ControlBlock depending on it.
	onRunnable func()
}

// Option configures a ControlBlock at construction time.
type Option func(*ControlBlock)

// WithMailboxImpl overrides the default BlockingMailbox.
func WithMailboxImpl(mb Mailbox) Option {
	return func(cb *ControlBlock) { cb.mailbox = mb }
}

// WithLoggerImpl attaches a logger, defaulting to log.DiscardLogger.
func WithLoggerImpl(logger log.Logger) Option {
	return func(cb *ControlBlock) { cb.logger = logger }
}

// WithHiddenImpl marks the control block hidden: it never registers in the
// actor-count registry (E.3's generalized scheduled_and_hidden /
// detached_and_hidden hint).
func WithHiddenImpl(hidden bool) Option {
	return func(cb *ControlBlock) { cb.hidden = hidden }
}

// NewControlBlock allocates a control block with a fresh id (4.2.3) and
// registers it in the process-wide registry so link sets can resolve it by
// id later.
func NewControlBlock(opts ...Option) *ControlBlock {
	cb := &ControlBlock{
		id:     NextID(),
		logger: log.DiscardLogger,
		links:  mapset.NewSet[ID](),
	}
	for _, opt := range opts {
		opt(cb)
	}
	if cb.mailbox == nil {
		cb.mailbox = NewBlockingMailbox()
	}
	register(cb)
	return cb
}

// ID returns the actor's process-unique identity.
func (cb *ControlBlock) ID() ID { return cb.id }

// Hidden reports whether this actor is excluded from the actor-count
// registry (E.3).
func (cb *ControlBlock) Hidden() bool { return cb.hidden }

// Mailbox returns the underlying mailbox. The scheduler and Context use
// this to drive dequeues; user code should prefer Send/Reply/Receive.
func (cb *ControlBlock) Mailbox() Mailbox { return cb.mailbox }

// Logger returns the control block's logger.
func (cb *ControlBlock) Logger() log.Logger { return cb.logger }

// SetOnRunnable installs the scheduler's wakeup hook. Called once, by the
// scheduler, immediately after NewControlBlock.
func (cb *ControlBlock) SetOnRunnable(fn func()) { cb.onRunnable = fn }

// Behavior returns the actor's current event-based behavior, or nil for a
// detached actor that never installed one.
func (cb *ControlBlock) Behavior() Behavior {
	p := cb.behavior.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Become installs b as the actor's current behavior, replacing whatever was
// installed before. Takes effect starting with the next dequeued message.
func (cb *ControlBlock) Become(b Behavior) {
	cb.behavior.Store(&b)
}

// deliver enqueues env into the mailbox and wakes the scheduler if this
// transitioned the mailbox from empty to non-empty, per the 4.1 enqueue
// contract ("wakes the owning actor if it was blocked").
func (cb *ControlBlock) deliver(env *Envelope) {
	if cb.terminated.Load() {
		// Sending to a dead actor is a legal, silent no-op (7).
		return
	}
	wasEmpty := cb.mailbox.IsEmpty()
	cb.mailbox.Enqueue(env)
	if wasEmpty && cb.onRunnable != nil {
		cb.onRunnable()
	}
}

// Channel returns a Channel wrapping this control block, suitable for
// Envelope.Sender/Receiver and Group membership.
func (cb *ControlBlock) Channel() Channel { return Local(cb) }

// LastDequeued returns the envelope most recently consumed, the target of
// Reply (testable property 8).
func (cb *ControlBlock) LastDequeued() *Envelope {
	return cb.mailbox.LastDequeued()
}

// IsTerminated reports whether the actor has already terminated.
func (cb *ControlBlock) IsTerminated() bool { return cb.terminated.Load() }

// Reason returns the termination reason, or ReasonNotTerminated if the
// actor is still alive.
func (cb *ControlBlock) Reason() ExitReason {
	return ExitReason(cb.reason.Load())
}

// Attach registers an observer invoked once, with the termination reason,
// when this actor terminates (4.5). Returns the observer's token so it can
// later be selectively Detach-ed.
func (cb *ControlBlock) Attach(a Attachable) uuid.UUID {
	cb.attachMu.Lock()
	defer cb.attachMu.Unlock()
	if cb.terminated.Load() {
		// Already gone: fire immediately so callers relying on the
		// exit-observer pattern (e.g. the actor-count registry) still see
		// the notification exactly once.
		a.Terminated(cb.Reason())
		return a.Token()
	}
	cb.attachables = append(cb.attachables, a)
	return a.Token()
}

// Detach removes the observer identified by token, if present.
func (cb *ControlBlock) Detach(token uuid.UUID) {
	cb.attachMu.Lock()
	defer cb.attachMu.Unlock()
	for i, a := range cb.attachables {
		if Matches(a, token) {
			cb.attachables = append(cb.attachables[:i], cb.attachables[i+1:]...)
			return
		}
	}
}
