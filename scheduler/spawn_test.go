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

package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/actorcore/actor"
)

// withTestScheduler installs a single-worker ThreadPoolScheduler for the
// duration of the test and tears it down afterward, leaving the package
// singleton clear for the next test.
func withTestScheduler(t *testing.T) *ThreadPoolScheduler {
	t.Helper()
	tp := NewThreadPoolScheduler(WithWorkerCount(1))
	tp.Start()
	require.NoError(t, SetScheduler(tp))
	t.Cleanup(func() {
		_ = tp.Destroy()
		resetForTest()
	})
	return tp
}

func TestSpawnScheduledRoundTrip(t *testing.T) {
	withTestScheduler(t)

	var mu sync.Mutex
	var got any
	received := make(chan struct{})

	behavior := actor.BehaviorFunc(func(ctx *actor.ReceiveContext) {
		mu.Lock()
		got = ctx.Message()
		mu.Unlock()
		close(received)
	})

	cb, err := Spawn(Scheduled, behavior)
	require.NoError(t, err)
	defer cb.Quit(actor.ReasonNormal)

	cb.Channel().Enqueue(actor.NewEnvelope(nil, cb.Channel(), "hello"))

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("scheduled actor never received its message")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "hello", got)
}

func TestSpawnScheduledWithoutSchedulerFails(t *testing.T) {
	resetForTest()

	behavior := actor.BehaviorFunc(func(*actor.ReceiveContext) {})
	cb, err := Spawn(Scheduled, behavior)
	assert.Nil(t, cb)
	assert.ErrorIs(t, err, actor.ErrNoScheduler)
}

func TestSpawnScheduledRejectsWrongFuncType(t *testing.T) {
	withTestScheduler(t)

	cb, err := Spawn(Scheduled, func() {})
	assert.Nil(t, cb)
	assert.Error(t, err)
}

func TestSpawnDetachedRoundTrip(t *testing.T) {
	done := make(chan any, 1)

	cb, err := Spawn(Detached, func(ctx *actor.Context) {
		env := ctx.Receive()
		done <- env.Payload
	})
	require.NoError(t, err)
	defer cb.Quit(actor.ReasonNormal)

	cb.Channel().Enqueue(actor.NewEnvelope(nil, cb.Channel(), "ping"))

	select {
	case payload := <-done:
		assert.Equal(t, "ping", payload)
	case <-time.After(time.Second):
		t.Fatal("detached actor never received its message")
	}
}

func TestSpawnDetachedPanicTerminatesWithUnhandledException(t *testing.T) {
	terminated := make(chan actor.ExitReason, 1)

	cb, err := Spawn(Detached, func(*actor.Context) {
		panic("boom")
	})
	require.NoError(t, err)
	cb.Attach(actor.NewFuncAttachable(func(r actor.ExitReason) {
		terminated <- r
	}))

	select {
	case r := <-terminated:
		assert.Equal(t, actor.ReasonUnhandledException, r)
	case <-time.After(time.Second):
		t.Fatal("detached actor never terminated after panicking")
	}
}

func TestSpawnWithHiddenExcludesFromActorCount(t *testing.T) {
	withTestScheduler(t)
	before := ActorCount()

	behavior := actor.BehaviorFunc(func(*actor.ReceiveContext) {})
	cb, err := Spawn(Scheduled, behavior, WithHidden())
	require.NoError(t, err)
	defer cb.Quit(actor.ReasonNormal)

	assert.Equal(t, before, ActorCount())
}

func TestSpawnWithInitCallbackRunsBeforeFirstMessage(t *testing.T) {
	withTestScheduler(t)

	initRan := false
	behavior := actor.BehaviorFunc(func(*actor.ReceiveContext) {})

	cb, err := Spawn(Scheduled, behavior, WithInitCallback(func(*actor.Context) error {
		initRan = true
		return nil
	}))
	require.NoError(t, err)
	defer cb.Quit(actor.ReasonNormal)

	assert.True(t, initRan)
}

func TestSpawnWithInitCallbackExhaustsRetriesAndFails(t *testing.T) {
	withTestScheduler(t)

	attempts := 0
	boom := errors.New("init boom")
	behavior := actor.BehaviorFunc(func(*actor.ReceiveContext) {})

	cb, err := Spawn(Scheduled, behavior, WithInitCallback(func(*actor.Context) error {
		attempts++
		return boom
	}))

	assert.Nil(t, cb)
	var spawnErr *actor.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.ErrorIs(t, spawnErr, boom)
	assert.Positive(t, attempts)
}
