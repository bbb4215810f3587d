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

// Package scheduler multiplexes actors onto a fixed-size worker pool (4.2)
// and tracks the process-wide actor count that backs AwaitAllOthersDone
// (3, 4.2.4).
package scheduler

import (
	"sync"

	uberatomic "go.uber.org/atomic"

	"github.com/relaycore/actorcore/actor"
)

// Scheduler picks up runnable actors and executes them. The only
// implementation shipped is the thread-pool scheduler (4.2.1); the
// interface exists so set_scheduler (6) can be satisfied by a
// caller-supplied alternative without the rest of the package depending on
// a concrete type.
type Scheduler interface {
	// Submit registers cb with the scheduler and marks it runnable so a
	// worker considers it on its next pass. Called once by Spawn.
	Submit(cb *actor.ControlBlock)
	// Destroy stops all workers, letting in-flight quanta finish, and
	// releases scheduler resources. Submit after Destroy is undefined.
	Destroy() error
}

var (
	mu      sync.Mutex
	current Scheduler
)

// SetScheduler installs impl as the process-wide scheduler. Fails with
// actor.ErrSchedulerAlreadySet if one is already installed; the existing
// scheduler is left untouched (7, testable property "Scheduler rejection").
func SetScheduler(impl Scheduler) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return actor.ErrSchedulerAlreadySet
	}
	current = impl
	return nil
}

// SetDefaultScheduler installs a ThreadPoolScheduler built from opts as the
// process-wide scheduler and starts it. Equivalent to
// SetScheduler(NewThreadPoolScheduler(opts...)) plus Start.
func SetDefaultScheduler(opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return actor.ErrSchedulerAlreadySet
	}
	tp := NewThreadPoolScheduler(opts...)
	tp.Start()
	current = tp
	return nil
}

// GetScheduler returns the installed scheduler, or nil if none has been set.
func GetScheduler() Scheduler {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// resetForTest clears the installed scheduler. Test-only; production code
// has no supported way to uninstall a scheduler once set (7).
func resetForTest() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

// actorCount is the global actor-count registry (3): the number of
// not-yet-terminated, non-hidden control blocks currently registered.
var actorCount uberatomic.Int64

var quiescence = sync.NewCond(&sync.Mutex{})

// registerActor increments the actor count unless hidden, per the
// generalized scheduled_and_hidden/detached_and_hidden hint (E.3).
func registerActor(hidden bool) {
	if !hidden {
		actorCount.Inc()
	}
}

// deregisterActor decrements the actor count and wakes any
// AwaitAllOthersDone waiters.
func deregisterActor(hidden bool) {
	if hidden {
		return
	}
	if actorCount.Dec() <= 0 {
		quiescence.L.Lock()
		quiescence.Broadcast()
		quiescence.L.Unlock()
	}
}

// ActorCount returns the current actor-count registry value, for
// diagnostics and the optional otel gauge (E.2).
func ActorCount() int64 {
	return actorCount.Load()
}

// AwaitAllOthersDone blocks the caller until the global actor count reaches
// zero: no non-hidden actor remains (4.2.4, testable property 5). The
// caller itself is never counted, since it is not a spawned control block.
func AwaitAllOthersDone() {
	quiescence.L.Lock()
	for actorCount.Load() > 0 {
		quiescence.Wait()
	}
	quiescence.L.Unlock()
}
