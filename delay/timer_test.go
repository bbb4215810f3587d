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

package delay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/relaycore/actorcore/actor"
)

func TestMain(m *testing.M) {
	// Every test that spawns the emitter tears it down again with Stop; the
	// leak check runs once, after every test in the package has finished.
	goleak.VerifyTestMain(m)
}

func TestDelayedSendDeliversAtDeadline(t *testing.T) {
	defer Stop()

	receiver := actor.NewControlBlock()
	defer receiver.Quit(actor.ReasonNormal)

	start := time.Now()
	deadline := start.Add(30 * time.Millisecond)
	require.NoError(t, DelayedSend(nil, receiver.Channel(), "tick", deadline))

	env := receiver.Mailbox().Dequeue()
	require.NotNil(t, env)
	assert.Equal(t, "tick", env.Payload)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDelayedSendOrdersByDeadline(t *testing.T) {
	defer Stop()

	receiver := actor.NewControlBlock()
	defer receiver.Quit(actor.ReasonNormal)

	now := time.Now()
	// Scheduled out of deadline order to exercise the priority queue rather
	// than incidental FIFO enqueue order.
	require.NoError(t, DelayedSend(nil, receiver.Channel(), "second", now.Add(60*time.Millisecond)))
	require.NoError(t, DelayedSend(nil, receiver.Channel(), "first", now.Add(20*time.Millisecond)))

	first := receiver.Mailbox().Dequeue()
	second := receiver.Mailbox().Dequeue()
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "first", first.Payload)
	assert.Equal(t, "second", second.Payload)
}

func TestDelayedReplyCorrelatesResponseID(t *testing.T) {
	defer Stop()

	receiver := actor.NewControlBlock()
	defer receiver.Quit(actor.ReasonNormal)

	require.NoError(t, DelayedReply(nil, receiver.Channel(), 7, "pong", time.Now().Add(20*time.Millisecond)))

	env := receiver.Mailbox().Dequeue()
	require.NotNil(t, env)
	assert.Equal(t, "pong", env.Payload)
	require.NotNil(t, env.ResponseID)
	assert.EqualValues(t, 7, *env.ResponseID)
}

func TestDelayedSendWithNilReceiverIsDropped(t *testing.T) {
	defer Stop()

	require.NoError(t, DelayedSend(nil, nil, "nowhere", time.Now().Add(10*time.Millisecond)))

	// Nothing to assert on directly; this only exercises that the emitter
	// doesn't panic delivering to a nil receiver. Give it time to process.
	time.Sleep(30 * time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	receiver := actor.NewControlBlock()
	defer receiver.Quit(actor.ReasonNormal)

	require.NoError(t, DelayedSend(nil, receiver.Channel(), "once", time.Now().Add(10*time.Millisecond)))
	env := receiver.Mailbox().Dequeue()
	require.NotNil(t, env)

	Stop()
	Stop() // second call must be a no-op, not a panic
}
