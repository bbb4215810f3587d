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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/relaycore/actorcore/log"
)

// countingLogger wraps log.DiscardLogger, counting Infof calls so tests can
// assert the diagnostics loop actually logged without parsing message text.
type countingLogger struct {
	log.Logger
	mu    sync.Mutex
	count int
}

func (l *countingLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()
}

func (l *countingLogger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func TestStartDiagnosticsLogLogsPeriodically(t *testing.T) {
	logger := &countingLogger{Logger: log.DiscardLogger}
	tp := NewThreadPoolScheduler(WithWorkerCount(1), WithLogger(logger))
	tp.Start()
	defer tp.Destroy()

	stop := tp.StartDiagnosticsLog(5 * time.Millisecond)
	defer stop()

	assert.Eventually(t, func() bool { return logger.calls() > 0 }, time.Second, 5*time.Millisecond)
}

func TestStartDiagnosticsLogStopIsIdempotent(t *testing.T) {
	logger := &countingLogger{Logger: log.DiscardLogger}
	tp := NewThreadPoolScheduler(WithWorkerCount(1), WithLogger(logger))
	tp.Start()
	defer tp.Destroy()

	stop := tp.StartDiagnosticsLog(5 * time.Millisecond)
	stop()
	stop() // must not panic or double-close

	before := logger.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, logger.calls())
}
