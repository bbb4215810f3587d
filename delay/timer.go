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

// Package delay implements the timed-delivery service (spec section 3/4.3):
// a single internal "time emitter" actor holding an ordered multimap, keyed
// by deadline, of pending SEND/REPLY deliveries. DelayedSend and
// DelayedReply are the only entry points applications need; the emitter
// itself is an implementation detail spawned lazily on first use.
package delay

import (
	"sync"
	"sync/atomic"
	"time"

	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/relaycore/actorcore/actor"
	"github.com/relaycore/actorcore/internal/duration"
	"github.com/relaycore/actorcore/log"
	"github.com/relaycore/actorcore/scheduler"
)

// logger receives diagnostic messages from the time emitter. Defaults to a
// discard logger; attach one with SetLogger.
var logger log.Logger = log.DiscardLogger

// SetLogger attaches l as the time emitter's logger.
func SetLogger(l log.Logger) { logger = l }

// timedEntry is one pending delivery in the emitter's priority queue,
// ordered by deadline with seq as a tiebreaker so two entries scheduled for
// the same instant still fire in the order they were scheduled (4.3's
// "stable ordered multimap" requirement).
type timedEntry struct {
	deadline   time.Time
	seq        uint64
	sender     actor.Channel
	receiver   actor.Channel
	payload    any
	isReply    bool
	responseID *uint64
}

// Compare implements gods.Item: the PriorityQueue hands out the item that
// compares lowest first, so the entry with the earlier deadline compares
// lower. Equal deadlines break ties on sequence number.
func (e *timedEntry) Compare(other gods.Item) int {
	o := other.(*timedEntry)
	switch {
	case e.deadline.Before(o.deadline):
		return -1
	case e.deadline.After(o.deadline):
		return 1
	case e.seq < o.seq:
		return -1
	case e.seq > o.seq:
		return 1
	default:
		return 0
	}
}

var _ gods.Item = (*timedEntry)(nil)

type dieSignal struct{}

var seq atomic.Uint64

var (
	mu      sync.Mutex
	emitter *actor.ControlBlock
)

// ensureEmitter lazily spawns the time emitter as a hidden detached actor,
// so AwaitAllOthersDone never blocks on it (E.3's generalized hidden hint).
// The emitter is spawned once per process and reused by every subsequent
// DelayedSend/DelayedReply call.
func ensureEmitter() (*actor.ControlBlock, error) {
	mu.Lock()
	defer mu.Unlock()
	if emitter != nil && !emitter.IsTerminated() {
		return emitter, nil
	}
	cb, err := scheduler.Spawn(scheduler.Detached, runEmitter, scheduler.WithHidden())
	if err != nil {
		return nil, err
	}
	emitter = cb
	return cb, nil
}

// Stop terminates the time emitter, if one is running. Pending entries are
// dropped. Intended for test teardown and graceful process shutdown.
func Stop() {
	mu.Lock()
	cb := emitter
	emitter = nil
	mu.Unlock()
	if cb == nil || cb.IsTerminated() {
		return
	}
	cb.Channel().Enqueue(actor.NewEnvelope(nil, cb.Channel(), dieSignal{}))
}

// DelayedSend schedules payload to be delivered to to, as an ordinary SEND,
// at deadline. from may be nil for an anonymous send.
func DelayedSend(from, to actor.Channel, payload any, deadline time.Time) error {
	cb, err := ensureEmitter()
	if err != nil {
		return err
	}
	cb.Channel().Enqueue(actor.NewEnvelope(from, cb.Channel(), &timedEntry{
		deadline: deadline,
		seq:      seq.Add(1),
		sender:   from,
		receiver: to,
		payload:  payload,
	}))
	return nil
}

// DelayedReply schedules payload to be delivered to to at deadline,
// correlated with responseID the way an immediate Reply would be. deliver
// attaches responseID to the delivered envelope unconditionally; it does
// not check whether the id still matches a pending request. Only entries
// scheduled through DelayedSend go out without a response id.
func DelayedReply(from, to actor.Channel, responseID uint64, payload any, deadline time.Time) error {
	cb, err := ensureEmitter()
	if err != nil {
		return err
	}
	id := responseID
	cb.Channel().Enqueue(actor.NewEnvelope(from, cb.Channel(), &timedEntry{
		deadline:   deadline,
		seq:        seq.Add(1),
		sender:     from,
		receiver:   to,
		payload:    payload,
		isReply:    true,
		responseID: &id,
	}))
	return nil
}

// runEmitter is the time emitter's detached behavior: it alternates between
// waiting for either a new schedule request or the earliest pending
// deadline, whichever comes first, and firing every entry whose deadline
// has passed.
func runEmitter(ctx *actor.Context) {
	pq := gods.NewPriorityQueue(64, true)
	defer pq.Dispose()

	for {
		if pq.Empty() {
			env := ctx.Receive()
			if env == nil || !handle(pq, env) {
				return
			}
			continue
		}

		item := pq.Peek()
		if item == nil {
			fireDue(pq)
			continue
		}
		deadline := item.(*timedEntry).deadline

		env, ok := ctx.ControlBlock().Mailbox().TryDequeueUntil(deadline)
		if !ok {
			fireDue(pq)
			continue
		}
		if !handle(pq, env) {
			return
		}
		fireDue(pq)
	}
}

// handle applies one control envelope to the emitter's pending queue,
// reporting whether the emitter should keep running.
func handle(pq *gods.PriorityQueue, env *actor.Envelope) bool {
	switch payload := env.Payload.(type) {
	case *timedEntry:
		_ = pq.Put(payload)
	case dieSignal:
		return false
	}
	return true
}

// fireDue pops and delivers every entry whose deadline has passed.
func fireDue(pq *gods.PriorityQueue) {
	now := time.Now()
	for !pq.Empty() {
		next := pq.Peek()
		if next == nil {
			return
		}
		entry := next.(*timedEntry)
		if entry.deadline.After(now) {
			return
		}
		items, err := pq.Get(1)
		if err != nil || len(items) == 0 {
			return
		}
		deliver(items[0].(*timedEntry))
	}
}

func deliver(entry *timedEntry) {
	if entry.receiver == nil {
		return
	}
	if drift := time.Since(entry.deadline); drift > 0 {
		logger.Debugf("delayed delivery to %s fired %s late", entry.receiver.ID(), duration.Format(drift))
	}
	env := &actor.Envelope{
		Sender:   entry.sender,
		Receiver: entry.receiver,
		Payload:  entry.payload,
	}
	if entry.isReply && entry.responseID != nil {
		env.ResponseID = entry.responseID
	}
	entry.receiver.Enqueue(env)
}
