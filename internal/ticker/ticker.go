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
	"sync"
	"time"
)

// Ticker drives the thread-pool scheduler's periodic diagnostics log
// (scheduler.StartDiagnosticsLog): a cadence that can be started, stopped,
// and restarted across a ControlBlock's lifetime without leaking the
// underlying time.Ticker between restarts.
type Ticker struct {
	Ticks   chan time.Time
	cadence time.Duration
	mu      sync.Mutex
	running bool
	quit    chan bool
}

// New returns a Ticker that, once Started, delivers a tick on Ticks every
// cadence. A slow receiver drops ticks rather than building up backlog.
func New(cadence time.Duration) *Ticker {
	if cadence <= 0 {
		panic("cadence must be greater than zero")
	}
	return &Ticker{
		Ticks:   make(chan time.Time),
		cadence: cadence,
		quit:    make(chan bool),
	}
}

// Start begins delivering ticks. A no-op if already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.running = true
		go t.run()
	}
}

// Stop halts delivery. No tick is sent on Ticks between Stop returning and
// a subsequent Start.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.running = false
		t.quit <- true
	}
}

// Ticking reports whether the ticker is currently running.
func (t *Ticker) Ticking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) run() {
	clock := time.NewTicker(t.cadence)
	defer clock.Stop()
	for {
		select {
		case now := <-clock.C:
			select {
			case t.Ticks <- now:
			default:
			}
		case <-t.quit:
			return
		}
	}
}
