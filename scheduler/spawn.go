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
	"context"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/relaycore/actorcore/actor"
)

// Spawn allocates and starts a new actor (4.2.3). fn's required type depends
// on hint:
//
//   - Scheduled: actor.Behavior, or a bare func(*actor.ReceiveContext) that
//     gets adapted via actor.BehaviorFunc. The actor runs on the installed
//     Scheduler, one message per quantum.
//   - Detached: func(*actor.Context), run on its own goroutine with blocking
//     receives until it returns or panics (4.2.2).
//
// There is no "self" placeholder to resolve here the way a dynamically
// typed spawn(hint, callable, args...) needs one: Go closures already
// capture the spawning actor's own Context/ReceiveContext by reference, so
// a caller writes spawn-time references to itself simply by closing over
// its own ctx before calling Spawn, and the new actor learns its own
// identity from the ReceiveContext/Context handed to it, never from args.
func Spawn(hint Hint, fn any, opts ...SpawnOption) (*actor.ControlBlock, error) {
	cfg := newSpawnConfig(opts...)

	cb := actor.NewControlBlock(
		actor.WithHiddenImpl(cfg.hidden),
		actor.WithLoggerImpl(cfg.logger),
		actor.WithMailboxImpl(cfg.mailbox),
	)

	registerActor(cfg.hidden)
	cb.Attach(actor.NewFuncAttachable(func(actor.ExitReason) {
		deregisterActor(cfg.hidden)
	}))

	if cfg.initCallback != nil {
		if err := runInit(cb, cfg.initCallback); err != nil {
			cb.Quit(actor.ReasonUnhandledException)
			return nil, &actor.SpawnError{Cause: err}
		}
	}

	switch hint {
	case Scheduled:
		behavior, err := asBehavior(fn)
		if err != nil {
			cb.Quit(actor.ReasonUnknown)
			return nil, err
		}
		cb.Become(behavior)
		sch := GetScheduler()
		if sch == nil {
			cb.Quit(actor.ReasonUnknown)
			return nil, actor.ErrNoScheduler
		}
		sch.Submit(cb)
	case Detached:
		run, ok := fn.(func(*actor.Context))
		if !ok {
			cb.Quit(actor.ReasonUnknown)
			return nil, fmt.Errorf("scheduler: detached spawn requires a func(*actor.Context), got %T", fn)
		}
		runDetached(cb, run)
	default:
		cb.Quit(actor.ReasonUnknown)
		return nil, fmt.Errorf("scheduler: unknown spawn hint %d", hint)
	}

	return cb, nil
}

func asBehavior(fn any) (actor.Behavior, error) {
	switch b := fn.(type) {
	case actor.Behavior:
		return b, nil
	case func(*actor.ReceiveContext):
		return actor.BehaviorFunc(b), nil
	default:
		return nil, fmt.Errorf("scheduler: scheduled spawn requires an actor.Behavior, got %T", fn)
	}
}

// runInit retries fn up to DefaultInitMaxRetries times with an exponential
// backoff that starts at DefaultInitRetryBackoff and is capped at
// DefaultInitMaxRetries times that delay, mirroring the teacher's own
// actor-initialization retry (flowchartsman/retry). fn sees a blocking
// Context over cb so it can Send/Receive during initialization if needed.
func runInit(cb *actor.ControlBlock, fn func(*actor.Context) error) error {
	retrier := retry.NewRetrier(actor.DefaultInitMaxRetries, actor.DefaultInitRetryBackoff, actor.DefaultInitRetryBackoff*time.Duration(actor.DefaultInitMaxRetries))
	ctx := actor.NewContext(cb)
	return retrier.RunContext(context.Background(), func(context.Context) error {
		return fn(ctx)
	})
}
