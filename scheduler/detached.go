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

import "github.com/relaycore/actorcore/actor"

// runDetached starts cb on its own goroutine, giving run a blocking Context
// (4.2.2): Receive parks the goroutine instead of yielding a quantum back to
// a shared worker. This is the "dedicated thread" path for actors that need
// genuine blocking receives rather than an event-based Behavior.
//
// run's return, like reaching the end of a thread's behavior loop in the
// teacher's own detached actors, is a normal exit; a panic is caught and
// translated into an unhandled-exception exit, exactly like executeQuantum
// does for scheduled actors.
func runDetached(cb *actor.ControlBlock, run func(*actor.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				cb.Logger().Errorf("detached actor %s panicked: %v", cb.ID(), r)
				cb.Quit(actor.ReasonUnhandledException)
				return
			}
			if !cb.IsTerminated() {
				cb.Quit(actor.ReasonNormal)
			}
		}()
		run(actor.NewContext(cb))
	}()
}
