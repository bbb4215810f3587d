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

import "fmt"

// ExitReason explains why an actor terminated. Reasons below 0x10000 are
// reserved for well-known, framework-level conditions; user code is free to
// define its own reasons at or above ReasonUserDefined.
type ExitReason uint32

const (
	// ReasonNotTerminated is the zero value: the actor is still alive.
	ReasonNotTerminated ExitReason = 0
	// ReasonNormal means the actor's behavior voluntarily returned without
	// error. A linked peer that has not opted into observing normal exits
	// ignores this reason rather than terminating from it (4.4).
	ReasonNormal ExitReason = 1
	// ReasonUnhandledException means the actor's behavior panicked or
	// returned an error that nothing recovered from.
	ReasonUnhandledException ExitReason = 2
	// ReasonUnknown is used when no other reason applies, e.g. an actor
	// killed by a supervisor without an explicit cause.
	ReasonUnknown ExitReason = 3
	// ReasonRemoteLinkBroken means a remote proxy's underlying connection
	// was lost, terminating the local proxy channel.
	ReasonRemoteLinkBroken ExitReason = 4
	// ReasonUserDefined is the first value application code may use for its
	// own exit reasons.
	ReasonUserDefined ExitReason = 0x10000
)

var reasonNames = map[ExitReason]string{
	ReasonNotTerminated:       "not_terminated",
	ReasonNormal:              "normal",
	ReasonUnhandledException:  "unhandled_exception",
	ReasonUnknown:             "unknown",
	ReasonRemoteLinkBroken:    "remote_link_broken",
}

// String renders well-known reasons by name and anything else numerically.
func (r ExitReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", uint32(r))
}

// IsNormal reports whether r represents a non-failure termination that a
// linked peer ignores by default (4.4).
func (r ExitReason) IsNormal() bool {
	return r == ReasonNormal
}
