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

import "sync"

// registry resolves actor ids to control blocks process-wide. Link sets
// store only ids (3, Design Notes: "Ownership of control blocks"); exit
// propagation looks peers up here rather than holding strong references,
// which would otherwise create an uncollectable actor<->link cycle.
var registry sync.Map // map[ID]*ControlBlock

func register(cb *ControlBlock) {
	registry.Store(cb.id, cb)
}

func unregister(id ID) {
	registry.Delete(id)
}

// Lookup returns the control block for id, or nil if it is unknown or has
// already been released.
func Lookup(id ID) *ControlBlock {
	v, ok := registry.Load(id)
	if !ok {
		return nil
	}
	return v.(*ControlBlock)
}
