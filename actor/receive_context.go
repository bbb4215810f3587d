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

// ReceiveContext is the per-message API handed to a scheduled (event-based)
// actor's Behavior for one quantum (4.2.1): one dequeued envelope, plus the
// operations that act on it or on the owning actor.
//
// The sender is frozen at dequeue time, so Reply always targets the sender
// of this exact envelope even if the actor's self-mailbox has since been
// drained further by other means (testable property 8).
type ReceiveContext struct {
	self *ControlBlock
	env  *Envelope
}

// NewReceiveContext builds the per-quantum context a scheduler hands to
// self's current Behavior for env. Exported so scheduler implementations
// outside this package (set_scheduler, 6) can drive event-based actors too.
func NewReceiveContext(self *ControlBlock, env *Envelope) *ReceiveContext {
	return &ReceiveContext{self: self, env: env}
}

// Self returns the receiving actor's own channel.
func (ctx *ReceiveContext) Self() Channel { return ctx.self.Channel() }

// SelfID returns the receiving actor's id.
func (ctx *ReceiveContext) SelfID() ID { return ctx.self.id }

// Message returns the dequeued envelope's payload.
func (ctx *ReceiveContext) Message() any { return ctx.env.Payload }

// Envelope returns the raw envelope this quantum is processing.
func (ctx *ReceiveContext) Envelope() *Envelope { return ctx.env }

// Sender returns the channel that sent this message, or nil for an
// anonymous send.
func (ctx *ReceiveContext) Sender() Channel { return ctx.env.Sender }

// Reply sends payload to the sender of the message this quantum is
// processing, correlated with its response id if it carried one. A message
// with no sender is silently dropped, matching the "message to nullable
// target" rule (7).
func (ctx *ReceiveContext) Reply(payload any) {
	if ctx.env.Sender == nil {
		return
	}
	ctx.env.Sender.Enqueue(&Envelope{
		Sender:     ctx.self.Channel(),
		Receiver:   ctx.env.Sender,
		Payload:    payload,
		ResponseID: ctx.env.ResponseID,
	})
}

// Send delivers payload to to, from this actor.
func (ctx *ReceiveContext) Send(to Channel, payload any) {
	if to == nil {
		return
	}
	to.Enqueue(NewEnvelope(ctx.self.Channel(), to, payload))
}

// Become installs b as the actor's behavior for subsequent quanta.
func (ctx *ReceiveContext) Become(b Behavior) { ctx.self.Become(b) }

// Link symmetrically links the receiving actor with other (4.4).
func (ctx *ReceiveContext) Link(other *ControlBlock) { ctx.self.Link(other) }

// Unlink symmetrically removes the link with other.
func (ctx *ReceiveContext) Unlink(other *ControlBlock) { ctx.self.Unlink(other) }

// TrapExits controls whether exit signals reach this Behavior as ordinary
// messages instead of being handled by the default policy (4.4).
func (ctx *ReceiveContext) TrapExits(trap bool) { ctx.self.TrapExits(trap) }

// Quit terminates the receiving actor with reason.
func (ctx *ReceiveContext) Quit(reason ExitReason) { ctx.self.Quit(reason) }
