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

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewControlBlockDefaults(t *testing.T) {
	cb := NewControlBlock()
	assert.NotZero(t, cb.ID())
	assert.False(t, cb.Hidden())
	assert.False(t, cb.IsTerminated())
	assert.Equal(t, ReasonNotTerminated, cb.Reason())
	assert.NotNil(t, cb.Mailbox())
	assert.Same(t, cb, Lookup(cb.ID()))
}

func TestControlBlockHidden(t *testing.T) {
	cb := NewControlBlock(WithHiddenImpl(true))
	assert.True(t, cb.Hidden())
}

func TestDeliverToDeadActorIsNoop(t *testing.T) {
	cb := NewControlBlock()
	cb.Quit(ReasonNormal)
	assert.True(t, cb.IsTerminated())

	cb.Channel().Enqueue(NewEnvelope(nil, cb.Channel(), "hello"))
	assert.True(t, cb.Mailbox().IsEmpty())
}

func TestQuitFiresAttachedObserversOnce(t *testing.T) {
	cb := NewControlBlock()

	var reasons []ExitReason
	cb.Attach(NewFuncAttachable(func(r ExitReason) {
		reasons = append(reasons, r)
	}))

	cb.Quit(ReasonUnhandledException)
	cb.Quit(ReasonNormal) // second Quit must be a no-op

	assert.Equal(t, []ExitReason{ReasonUnhandledException}, reasons)
	assert.Equal(t, ReasonUnhandledException, cb.Reason())
}

func TestAttachAfterTerminationFiresImmediately(t *testing.T) {
	cb := NewControlBlock()
	cb.Quit(ReasonNormal)

	fired := false
	cb.Attach(NewFuncAttachable(func(r ExitReason) {
		fired = true
		assert.Equal(t, ReasonNormal, r)
	}))
	assert.True(t, fired)
}

func TestDetachRemovesObserver(t *testing.T) {
	cb := NewControlBlock()
	fired := false
	token := cb.Attach(NewFuncAttachable(func(ExitReason) { fired = true }))
	cb.Detach(token)
	cb.Quit(ReasonNormal)
	assert.False(t, fired)
}

func TestLinkIsSymmetric(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer a.Quit(ReasonNormal)
	defer b.Quit(ReasonNormal)

	a.Link(b)
	assert.True(t, a.links.Contains(b.id))
	assert.True(t, b.links.Contains(a.id))
}

func TestUnlinkIsSymmetric(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer a.Quit(ReasonNormal)
	defer b.Quit(ReasonNormal)

	a.Link(b)
	a.Unlink(b)
	assert.False(t, a.links.Contains(b.id))
	assert.False(t, b.links.Contains(a.id))
}

func TestLinkToAlreadyTerminatedDeliversExitSignal(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer a.Quit(ReasonNormal)

	b.Quit(ReasonUnhandledException)
	a.Link(b)

	env := a.Mailbox().Dequeue()
	from, reason, ok := IsExitSignal(env)
	assert.True(t, ok)
	assert.Equal(t, b.id, from)
	assert.Equal(t, ReasonUnhandledException, reason)
}

func TestQuitPropagatesExitToLinkedPeers(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer b.Quit(ReasonNormal)

	a.Link(b)
	a.Quit(ReasonUnhandledException)

	env := b.Mailbox().Dequeue()
	from, reason, ok := IsExitSignal(env)
	assert.True(t, ok)
	assert.Equal(t, a.id, from)
	assert.Equal(t, ReasonUnhandledException, reason)
}

func TestHandleExitSignalDefaultPolicyTerminatesOnAbnormalExit(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer b.Quit(ReasonNormal)

	a.Link(b)
	a.Quit(ReasonUnhandledException)

	env := b.Mailbox().Dequeue()
	handled := b.HandleExitSignal(env)
	assert.True(t, handled)
	assert.True(t, b.IsTerminated())
	assert.Equal(t, ReasonUnhandledException, b.Reason())
}

func TestHandleExitSignalIgnoresNormalExit(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer b.Quit(ReasonNormal)

	a.Link(b)
	a.Quit(ReasonNormal)

	env := b.Mailbox().Dequeue()
	handled := b.HandleExitSignal(env)
	assert.True(t, handled)
	assert.False(t, b.IsTerminated())
}

func TestHandleExitSignalRespectsTrapExits(t *testing.T) {
	a := NewControlBlock()
	b := NewControlBlock()
	defer b.Quit(ReasonNormal)

	b.TrapExits(true)
	a.Link(b)
	a.Quit(ReasonUnhandledException)

	env := b.Mailbox().Dequeue()
	handled := b.HandleExitSignal(env)
	assert.False(t, handled)
	assert.False(t, b.IsTerminated())
}

func TestReplyTargetsLastSenderAndCorrelatesResponseID(t *testing.T) {
	server := NewControlBlock()
	client := NewControlBlock()
	defer server.Quit(ReasonNormal)
	defer client.Quit(ReasonNormal)

	server.Channel().Enqueue(NewReply(client.Channel(), server.Channel(), 42, "ping"))

	ctx := NewContext(server)
	_ = ctx.Receive()
	ctx.Reply("pong")

	env := client.Mailbox().Dequeue()
	assert.Equal(t, "pong", env.Payload)
	assert.NotNil(t, env.ResponseID)
	assert.EqualValues(t, 42, *env.ResponseID)
}

func TestReplyIsNoopWithoutAPriorReceive(t *testing.T) {
	server := NewControlBlock()
	defer server.Quit(ReasonNormal)

	ctx := NewContext(server)
	ctx.Reply("nothing to reply to")
	_, ok := server.Mailbox().TryDequeue()
	assert.False(t, ok)
}
