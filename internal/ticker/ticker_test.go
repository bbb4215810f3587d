/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
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

package ticker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerDeliversTicksUntilStopped(t *testing.T) {
	tk := New(5 * time.Millisecond)
	tk.Start()
	assert.True(t, tk.Ticking())

	select {
	case <-tk.Ticks:
	case <-time.After(time.Second):
		t.Fatal("ticker did not deliver a tick")
	}

	tk.Stop()
	assert.False(t, tk.Ticking())
}

func TestTickerStartIsIdempotent(t *testing.T) {
	tk := New(5 * time.Millisecond)
	tk.Start()
	tk.Start() // must not spawn a second ticking loop or block
	defer tk.Stop()
	assert.True(t, tk.Ticking())
}

func TestTickerNewPanicsOnNonPositiveInterval(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}
