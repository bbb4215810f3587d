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
	"runtime"

	"go.opentelemetry.io/otel/metric"

	"github.com/relaycore/actorcore/log"
)

// Config configures a ThreadPoolScheduler (E.1).
type Config struct {
	workerCount int
	logger      log.Logger
	meter       metric.Meter
}

// Option applies a configuration choice to Config.
type Option func(*Config)

// WithWorkerCount sets the fixed number of worker goroutines (4.2.1).
// Defaults to runtime.GOMAXPROCS(0), matching "hardware concurrency" (6).
func WithWorkerCount(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.workerCount = n
		}
	}
}

// WithLogger attaches a logger to the scheduler; defaults to
// log.DiscardLogger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithMetrics enables the optional runnable-queue-depth gauge, actor-count
// gauge, and per-worker messages-processed counter (E.2). Additive
// instrumentation, not part of the core contract.
func WithMetrics(meter metric.Meter) Option {
	return func(c *Config) { c.meter = meter }
}

func newConfig(opts ...Option) *Config {
	c := &Config{
		workerCount: runtime.GOMAXPROCS(0),
		logger:      log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workerCount < 1 {
		c.workerCount = 1
	}
	return c
}
