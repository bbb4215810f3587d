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

// Behavior is a scheduled actor's current event-based state machine: one
// invocation handles one dequeued message, then returns, matching the
// quantum definition in 4.2.1 and the "event-based state machine"
// alternative to stackful continuations described in the design notes (9).
//
// A Behavior may install a new Behavior on the ReceiveContext (Become),
// terminate the actor (Quit), or simply return to keep the current
// Behavior installed for the next message.
type Behavior interface {
	Receive(ctx *ReceiveContext)
}

// BehaviorFunc adapts a plain function to Behavior.
type BehaviorFunc func(ctx *ReceiveContext)

// Receive implements Behavior.
func (f BehaviorFunc) Receive(ctx *ReceiveContext) { f(ctx) }

var _ Behavior = BehaviorFunc(nil)
