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

import "github.com/google/uuid"

// Attachable is an opaque observer invoked when an actor terminates (4.5).
// Used internally to drive the actor-count decrement and externally (e.g.
// by a remote transport) to close sockets on exit.
type Attachable interface {
	// Token identifies this observer so it can be selectively detached.
	Token() uuid.UUID
	// Terminated is invoked once, with the actor's termination reason,
	// after links have been notified.
	Terminated(reason ExitReason)
}

// Matches reports whether a is the observer identified by token.
func Matches(a Attachable, token uuid.UUID) bool {
	return a.Token() == token
}

// FuncAttachable adapts a plain function to Attachable with a fresh token.
type FuncAttachable struct {
	token uuid.UUID
	fn    func(reason ExitReason)
}

// NewFuncAttachable wraps fn as an Attachable with a freshly minted token.
func NewFuncAttachable(fn func(reason ExitReason)) *FuncAttachable {
	return &FuncAttachable{token: uuid.New(), fn: fn}
}

func (f *FuncAttachable) Token() uuid.UUID { return f.token }

func (f *FuncAttachable) Terminated(reason ExitReason) { f.fn(reason) }

var _ Attachable = (*FuncAttachable)(nil)
