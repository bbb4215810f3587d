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

// Link adds a symmetric peer relationship between cb and other, idempotent
// (4.4, testable property 3): after Link returns, cb is in other's link set
// and other is in cb's. Both sides are added under cb's own call, matching
// the design note that symmetry falls out of performing both Adds here
// rather than relying on a separate message round-trip.
//
// If other has already terminated, an exit signal with its reason is
// delivered to cb immediately, since a termination that happened before the
// link was established would otherwise never be observed.
func (cb *ControlBlock) Link(other *ControlBlock) {
	if other == nil || other.id == cb.id {
		return
	}
	if !cb.links.Add(other.id) {
		return // already linked
	}
	other.links.Add(cb.id)

	if other.IsTerminated() {
		cb.deliver(&Envelope{
			Receiver: cb.Channel(),
			Payload:  exitSignal{from: other.id, reason: other.Reason()},
		})
	}
}

// Unlink symmetrically removes the peer relationship between cb and other.
func (cb *ControlBlock) Unlink(other *ControlBlock) {
	if other == nil {
		return
	}
	cb.links.Remove(other.id)
	other.links.Remove(cb.id)
}

// TrapExits controls whether exit signals are delivered to this actor's
// Behavior as ordinary messages (trap = true) or handled by the default
// policy before the Behavior ever sees them (trap = false, the default for
// user actors per 4.4).
func (cb *ControlBlock) TrapExits(trap bool) {
	cb.trapExits.Store(trap)
}

// Quit terminates cb with reason: it marks the control block terminated,
// enqueues an exit signal carrying reason into every linked peer, invokes
// every attached observer with reason, and removes itself from the process
// registry (4.4).
func (cb *ControlBlock) Quit(reason ExitReason) {
	if !cb.terminated.CompareAndSwap(false, true) {
		return // already terminated
	}
	cb.reason.Store(uint32(reason))

	for _, peerID := range cb.links.ToSlice() {
		if peer := Lookup(peerID); peer != nil {
			peer.deliver(&Envelope{
				Receiver: peer.Channel(),
				Sender:   cb.Channel(),
				Payload:  exitSignal{from: cb.id, reason: reason},
			})
		}
	}

	cb.attachMu.Lock()
	observers := cb.attachables
	cb.attachables = nil
	cb.attachMu.Unlock()
	for _, a := range observers {
		a.Terminated(reason)
	}

	cb.mailbox.Dispose()
	unregister(cb.id)
}

// HandleExitSignal applies the default exit-handling policy for env if it
// carries an exit signal and cb has not trapped exits: a normal exit is
// ignored, anything else terminates cb with the same reason (4.4). It
// reports whether env was an exit signal handled here, so the caller (the
// scheduler's dispatch loop) knows whether to still invoke the Behavior.
func (cb *ControlBlock) HandleExitSignal(env *Envelope) (handled bool) {
	from, reason, ok := IsExitSignal(env)
	if !ok {
		return false
	}
	_ = from
	if cb.trapExits.Load() {
		return false
	}
	if !reason.IsNormal() {
		cb.Quit(reason)
	}
	return true
}
