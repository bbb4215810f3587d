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

// Channel is anything an Envelope can be enqueued into: a local actor, a
// fan-out group, or a remote actor proxy. The variant set is closed by
// convention (local, group, remote proxy) rather than open for arbitrary
// implementations, matching the three channel kinds the core actually
// needs.
type Channel interface {
	// Enqueue delivers env to this channel. It must never block the caller
	// indefinitely and must never fail: sending to a dead or unreachable
	// target is a legal no-op from the sender's point of view (7).
	Enqueue(env *Envelope)

	// ID returns the channel's identity for logging, linking, and
	// equality checks. Local actors use their ID; groups and remote
	// proxies synthesize their own namespace.
	ID() ID
}

// localChannel adapts a *ControlBlock to the Channel interface. Enqueue
// pushes into the actor's mailbox and lets the scheduler decide whether the
// actor needs to be marked runnable.
type localChannel struct {
	pid *ControlBlock
}

// Local wraps pid as a Channel that delivers directly into its mailbox.
func Local(pid *ControlBlock) Channel {
	return localChannel{pid: pid}
}

func (l localChannel) Enqueue(env *Envelope) {
	l.pid.deliver(env)
}

func (l localChannel) ID() ID {
	return l.pid.id
}

// Group fans an envelope out to every member channel. Ordering across
// members is unspecified, matching the "ordering across distinct senders is
// unspecified" rule (5); each member still sees FIFO delivery for any
// single sender.
type Group struct {
	groupID ID
	members []Channel
}

// NewGroup builds a fan-out channel over members. The group is assigned its
// own id distinct from any member's so it can be linked/attached like any
// other channel.
func NewGroup(members ...Channel) *Group {
	return &Group{groupID: NextID(), members: append([]Channel(nil), members...)}
}

func (g *Group) Enqueue(env *Envelope) {
	for _, m := range g.members {
		// Fan-out shares the payload; only the destination channel differs
		// per member, matching the copy-on-write tuple sharing in 5.
		fanned := *env
		fanned.Receiver = m
		m.Enqueue(&fanned)
	}
}

func (g *Group) ID() ID {
	return g.groupID
}

var (
	_ Channel = localChannel{}
	_ Channel = (*Group)(nil)
)
