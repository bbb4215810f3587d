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
	"context"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/relaycore/actorcore/actor"
	internalqueue "github.com/relaycore/actorcore/internal/queue"
)

// taskState is the scheduling state of one actor within the thread-pool
// scheduler (4.2.1). This is deliberately separate from the control
// block's own terminated/reason lifecycle in the actor package.
type taskState = int32

const (
	stateRunnable taskState = iota
	stateExecuting
	stateBlocked
)

// runnableTask pairs a control block with the scheduler's own view of its
// scheduling state, claimed via CAS exactly as 4.2.1 describes.
type runnableTask struct {
	cb    *actor.ControlBlock
	state atomic.Int32
}

// aggressivePollIterations / lessAggressiveIterations mirror the
// aggressive/less-aggressive/relaxed polling tiers of the original
// thread_pool_scheduler.cpp (E.3): pure spin while busy, short sleeps next,
// a 10ms sleep once truly idle. A per-shard wake channel short-circuits the
// backoff the instant work arrives.
const (
	aggressivePollIterations = 100
	lessAggressiveIterations  = 1000
)

type shard struct {
	queue *internalqueue.Linked[*runnableTask]
	wake  chan struct{}
}

func newShard() *shard {
	return &shard{queue: internalqueue.NewLinked[*runnableTask](), wake: make(chan struct{}, 1)}
}

func (s *shard) push(t *runnableTask) {
	s.queue.Push(t)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// ThreadPoolScheduler is the default Scheduler (4.2.1): a fixed pool of N
// worker goroutines, each polling its own shard of runnable actor refs.
// Actors are affined to a shard by xxh3-hashing their id (E.2), bounding
// cross-shard contention the way the teacher's workerpool shards its
// worker cache.
type ThreadPoolScheduler struct {
	cfg     *Config
	shards  []*shard
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	stopped atomic.Bool
	inst    *instruments
}

// dummyOfDoom is the poison-pill sentinel pushed once per shard on Destroy,
// compared by pointer identity so a worker recognizes it without a
// separate shutdown channel (E.3).
var dummyOfDoom = &runnableTask{}

var _ Scheduler = (*ThreadPoolScheduler)(nil)

// NewThreadPoolScheduler builds (but does not start) a scheduler from opts.
func NewThreadPoolScheduler(opts ...Option) *ThreadPoolScheduler {
	cfg := newConfig(opts...)
	tp := &ThreadPoolScheduler{cfg: cfg}
	tp.shards = make([]*shard, cfg.workerCount)
	for i := range tp.shards {
		tp.shards[i] = newShard()
	}
	tp.inst = newInstruments(cfg.meter, tp)
	return tp
}

func (tp *ThreadPoolScheduler) numShards() int { return len(tp.shards) }

// queueDepth approximates the runnable-queue-depth gauge (E.2): the
// lock-free per-shard queue exposes no O(1) length, so this reports the
// number of non-empty shards rather than an exact message count.
func (tp *ThreadPoolScheduler) queueDepth() int64 {
	var nonEmpty int64
	for _, sh := range tp.shards {
		if !sh.queue.IsEmpty() {
			nonEmpty++
		}
	}
	return nonEmpty
}

// Configure applies additional options to a scheduler that has not started
// yet, e.g. attaching a logger or otel meter decided after construction.
// Once Start has been called the worker goroutines are already reading
// tp.cfg without synchronization, so mutating it further is unsafe;
// Configure rejects the attempt with actor.ErrSchedulerNotConfigurable
// instead of racing it in. WithWorkerCount has no effect here: shards are
// sized once in NewThreadPoolScheduler and never reallocated.
func (tp *ThreadPoolScheduler) Configure(opts ...Option) error {
	if tp.started.Load() {
		return actor.ErrSchedulerNotConfigurable
	}
	for _, opt := range opts {
		opt(tp.cfg)
	}
	tp.inst = newInstruments(tp.cfg.meter, tp)
	return nil
}

// Start launches one worker goroutine per shard.
func (tp *ThreadPoolScheduler) Start() {
	tp.started.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	tp.ctx = ctx
	tp.cancel = cancel
	g := &errgroup.Group{}
	tp.group = g
	for i, sh := range tp.shards {
		i, sh := i, sh
		g.Go(func() error {
			tp.runWorker(i, sh)
			return nil
		})
	}
}

// shardFor picks the shard an actor is affined to, by xxh3-hashing its id
// (E.2), so repeated submissions of the same actor always land on the same
// worker's queue.
func (tp *ThreadPoolScheduler) shardFor(id actor.ID) *shard {
	h := xxh3.HashString(id.String())
	return tp.shards[h%uint64(len(tp.shards))]
}

// Submit registers cb as runnable (4.2.3). The task starts in
// stateRunnable; the owning worker claims it via CAS before executing a
// quantum.
func (tp *ThreadPoolScheduler) Submit(cb *actor.ControlBlock) {
	t := &runnableTask{cb: cb}
	t.state.Store(stateRunnable)
	sh := tp.shardFor(cb.ID())
	cb.SetOnRunnable(func() {
		// Re-arm: if the task had gone blocked, flip it back to runnable
		// and re-push. If it's already runnable or executing, this is a
		// harmless duplicate wake.
		if t.state.CompareAndSwap(stateBlocked, stateRunnable) {
			sh.push(t)
		}
	})
	sh.push(t)
}

func (tp *ThreadPoolScheduler) runWorker(shardIdx int, sh *shard) {
	iterations := 0
	for {
		if tp.stopped.Load() && sh.queue.IsEmpty() {
			return
		}
		t, ok := sh.queue.Pop()
		if !ok {
			iterations++
			tp.backoff(sh, iterations)
			continue
		}
		iterations = 0

		if t == dummyOfDoom {
			return
		}

		if !t.state.CompareAndSwap(stateRunnable, stateExecuting) {
			// Another worker already claimed it, or it was re-armed
			// concurrently; drop this stale entry.
			continue
		}

		tp.executeQuantum(t, shardIdx)
	}
}

func (tp *ThreadPoolScheduler) backoff(sh *shard, iterations int) {
	switch {
	case iterations < aggressivePollIterations:
		// aggressive: pure spin, no syscall
	case iterations < lessAggressiveIterations:
		select {
		case <-sh.wake:
		case <-time.After(time.Microsecond):
		}
	default:
		select {
		case <-sh.wake:
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// executeQuantum runs cb for exactly one dequeued message (the "Quantum"
// of 4.2.1), recovering from any panic and translating it into an
// unhandled-exception termination (7).
func (tp *ThreadPoolScheduler) executeQuantum(t *runnableTask, shardIdx int) {
	cb := t.cb
	if cb.IsTerminated() {
		return
	}

	env, ok := cb.Mailbox().TryDequeue()
	if !ok {
		tp.park(t, cb)
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				cb.Logger().Errorf("actor %s panicked: %v", cb.ID(), r)
				cb.Quit(actor.ReasonUnhandledException)
			}
		}()
		if cb.HandleExitSignal(env) {
			return
		}
		behavior := cb.Behavior()
		if behavior == nil {
			return
		}
		behavior.Receive(actor.NewReceiveContext(cb, env))
	}()

	tp.inst.recordProcessed(tp.ctx, shardIdx)

	if cb.IsTerminated() {
		return
	}
	tp.park(t, cb)
}

// park re-enqueues t if the mailbox still has work, or transitions it to
// blocked using the double-check pattern 4.2.1 requires to avoid a lost
// wakeup between the emptiness check and the state transition.
func (tp *ThreadPoolScheduler) park(t *runnableTask, cb *actor.ControlBlock) {
	if !cb.Mailbox().IsEmpty() {
		t.state.Store(stateRunnable)
		tp.shardFor(cb.ID()).push(t)
		return
	}
	t.state.Store(stateBlocked)
	if !cb.Mailbox().IsEmpty() && t.state.CompareAndSwap(stateBlocked, stateRunnable) {
		tp.shardFor(cb.ID()).push(t)
	}
}

// Destroy pushes one dummy-of-doom job per shard (E.3) and waits for every
// worker to observe it and return.
func (tp *ThreadPoolScheduler) Destroy() error {
	if !tp.stopped.CompareAndSwap(false, true) {
		return nil
	}
	for _, sh := range tp.shards {
		sh.push(dummyOfDoom)
	}
	err := tp.group.Wait()
	if tp.cancel != nil {
		tp.cancel()
	}
	return err
}
