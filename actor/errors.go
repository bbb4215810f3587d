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
	"errors"
	"fmt"
)

// Sentinel errors for expected conditions (7). Use errors.Is to test for
// these across wrapper types.
var (
	// ErrDead is returned when an operation targets an actor that has
	// already terminated.
	ErrDead = errors.New("actor: dead")
	// ErrInvalidTimeout is returned when a caller supplies a non-positive
	// duration where a positive one is required.
	ErrInvalidTimeout = errors.New("actor: invalid timeout")
	// ErrUnhandledMessage names a message that no rule matched. No function
	// in this module returns it.
	ErrUnhandledMessage = errors.New("actor: unhandled message")
	// ErrMailboxDisposed is returned when an operation is attempted against
	// a disposed mailbox.
	ErrMailboxDisposed = errors.New("actor: mailbox disposed")
	// ErrSchedulerAlreadySet is returned by SetScheduler when a scheduler
	// has already been installed; the existing scheduler is left in place
	// (7: configuration errors fail the call, do not mutate state).
	ErrSchedulerAlreadySet = errors.New("actor: scheduler already set")
	// ErrSchedulerNotConfigurable is returned by configuration methods
	// called after the scheduler has started.
	ErrSchedulerNotConfigurable = errors.New("actor: scheduler already started")
	// ErrNoScheduler is returned by operations that require a scheduler
	// (Spawn, AwaitAllOthersDone) before one has been installed.
	ErrNoScheduler = errors.New("actor: no scheduler configured")
	// ErrInvalidResponseID names a reply whose response id cannot be
	// correlated. No function in this module returns it; the timed-delivery
	// actor attaches whatever id DelayedReply was given without checking it.
	ErrInvalidResponseID = errors.New("actor: invalid response id")
)

// SpawnError wraps a failure raised while spawning an actor, e.g. the
// init callback exhausting its retry budget (4.2.3).
type SpawnError struct {
	// Cause is the underlying error returned by the init callback.
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("actor: spawn failed: %v", e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// PanicError wraps a recovered panic raised from within an actor's
// behavior, preserving the original panic value for diagnostics while
// still satisfying the error interface so it can flow through
// ControlBlock.quit's reason machinery.
type PanicError struct {
	// Value is whatever was passed to panic().
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("actor: panic: %v", e.Value)
}
