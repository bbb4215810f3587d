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

// Context is the blocking API available to a detached actor (4.2.2) and to
// any external "hidden context" registered with the runtime (GLOSSARY):
// explicit receive/send/link/quit calls against one's own control block,
// rather than the event-based ReceiveContext handed to scheduled actors one
// message at a time.
type Context struct {
	self *ControlBlock
}

// NewContext wraps self as a blocking Context. Used by scheduler.Spawn for
// detached actors and for init callbacks.
func NewContext(self *ControlBlock) *Context {
	return &Context{self: self}
}

// Self returns this context's own channel.
func (c *Context) Self() Channel { return c.self.Channel() }

// SelfID returns this context's own id.
func (c *Context) SelfID() ID { return c.self.id }

// ControlBlock exposes the underlying control block, e.g. so callers can
// pass it to Link/Unlink from another actor's context.
func (c *Context) ControlBlock() *ControlBlock { return c.self }

// Send delivers payload to to, from this context.
func (c *Context) Send(to Channel, payload any) {
	if to == nil {
		return
	}
	to.Enqueue(NewEnvelope(c.self.Channel(), to, payload))
}

// Reply sends payload to the sender of LastReceived, correlated with its
// response id if any (testable property 8). A no-op if nothing has been
// received yet or the last message was anonymous.
func (c *Context) Reply(payload any) {
	last := c.self.LastDequeued()
	if last == nil || last.Sender == nil {
		return
	}
	last.Sender.Enqueue(&Envelope{
		Sender:     c.self.Channel(),
		Receiver:   last.Sender,
		Payload:    payload,
		ResponseID: last.ResponseID,
	})
}

// Receive blocks until a message is available.
func (c *Context) Receive() *Envelope {
	return c.self.mailbox.Dequeue()
}

// ReceiveMatching blocks, scanning in arrival order, until rules selects an
// envelope (selective receive, 4.1).
func (c *Context) ReceiveMatching(rules InvokeRules) *Envelope {
	return c.self.mailbox.DequeueMatching(rules)
}

// TryReceive returns the next message without blocking, if one is
// immediately available.
func (c *Context) TryReceive() (*Envelope, bool) {
	return c.self.mailbox.TryDequeue()
}

// TryReceiveMatching is the non-blocking counterpart of ReceiveMatching.
func (c *Context) TryReceiveMatching(rules InvokeRules) (*Envelope, bool) {
	return c.self.mailbox.TryDequeueMatching(rules)
}

// LastReceived returns the envelope most recently returned by any Receive
// variant.
func (c *Context) LastReceived() *Envelope {
	return c.self.LastDequeued()
}

// Link symmetrically links this context's actor with other (4.4).
func (c *Context) Link(other *ControlBlock) { c.self.Link(other) }

// Unlink symmetrically removes the link with other.
func (c *Context) Unlink(other *ControlBlock) { c.self.Unlink(other) }

// TrapExits controls whether exit signals reach Receive as ordinary
// messages instead of the default policy terminating this context's actor.
func (c *Context) TrapExits(trap bool) { c.self.TrapExits(trap) }

// Quit terminates this context's actor with reason.
func (c *Context) Quit(reason ExitReason) { c.self.Quit(reason) }
