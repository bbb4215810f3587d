/*
 * MIT License
 *
 * Copyright (c) 2022-2024 Tochemey
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

package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMpscQueueFIFOUnderGrowingBatches exercises the push/pop cycle used by
// DefaultMailbox's single consumer: batches of increasing size are pushed
// then fully drained in order, checking both emptiness bookkeeping and FIFO
// order on every iteration.
func TestMpscQueueFIFOUnderGrowingBatches(t *testing.T) {
	q := NewMpscQueue[int]()
	require.True(t, q.IsEmpty())

	for batch := 0; batch < 100; batch++ {
		require.Zero(t, q.Len())
		_, ok := q.Pop()
		require.False(t, ok)

		for i := 0; i < batch; i++ {
			q.Push(i)
		}
		for i := 0; i < batch; i++ {
			x, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, i, x)
		}
	}
}

// TestMpscQueuePartialDrainKeepsOrder pushes more than it pops each round,
// mirroring a mailbox consumer that never fully catches up to its
// producers, and checks the surviving Len plus FIFO order across rounds.
func TestMpscQueuePartialDrainKeepsOrder(t *testing.T) {
	q := NewMpscQueue[int]()
	next, popped := 0, 0

	for round := 0; round < 100; round++ {
		for i := 0; i < 4; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < 2; i++ {
			x, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, popped, x)
			popped++
		}
	}

	assert.Equal(t, int64(200), q.Len())
}

// TestMpscQueueConcurrentProducersPreserveCount pushes from many goroutines
// at once — the concurrency model MpscQueue is actually built for — and
// checks every pushed value is eventually popped exactly once.
func TestMpscQueueConcurrentProducersPreserveCount(t *testing.T) {
	q := NewMpscQueue[int]()
	const producers, perProducer = 8, 200

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	seen := 0
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
		seen++
	}
	assert.Equal(t, producers*perProducer, seen)
	assert.True(t, q.IsEmpty())
}
