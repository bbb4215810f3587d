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
	"sync"
	"time"

	"github.com/relaycore/actorcore/internal/ticker"
)

// StartDiagnosticsLog periodically logs the scheduler's actor count and
// approximate runnable-queue depth at interval, for operators who want
// periodic visibility without wiring an otel meter (WithMetrics, E.2,
// remains the richer alternative for anyone scraping metrics). Returns a
// stop function; calling it twice is safe.
//
// Ticker.Stop halts the underlying ticks but never closes the Ticks
// channel, so the logging goroutine also selects on its own done channel
// rather than ranging over Ticks, or it would block forever after Stop.
func (tp *ThreadPoolScheduler) StartDiagnosticsLog(interval time.Duration) (stop func()) {
	t := ticker.New(interval)
	t.Start()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ts := <-t.Ticks:
				_ = ts
				tp.cfg.logger.Infof("scheduler: actors=%d queue_depth=%d", ActorCount(), tp.queueDepth())
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
