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

// Package workerpool runs remote.Publish's accept and connection-read loops
// as tasks on a sharded pool of reusable goroutines instead of a bare go
// statement per task: a task goes to an idle worker when one exists and to
// a newly spawned worker otherwise. The pool does not cap its worker count,
// so every loop that is still running holds one goroutine.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// maxShards bounds how many independent shards WorkerPool will create even
// if asked for more; each shard owns its own idle-worker list and lock, so
// shard count trades contention for per-shard bookkeeping overhead.
const maxShards = 128

// WorkerPool hands tasks (remote.acceptLoop, remote.readLoop) off to a pool
// of reusable goroutines partitioned into shards, so concurrent AddTask
// callers rarely contend on the same lock. The padding field keeps the
// hot fields above it and spawnedWorkers below it off the same cache line.
type WorkerPool struct {
	idleWorkerLifetime time.Duration
	numShards          int
	shards             []*poolShard
	mutex              spinMutex
	started            bool
	stopped            bool
	_                  [56]byte
	spawnedWorkers     uint64
}

// workerInstance is one pooled goroutine: it blocks on taskChan, runs
// whatever task it receives, then either returns to the idle pool or, once
// the pool is stopping, exits for good.
type workerInstance struct {
	taskChan  chan func()
	shard     *poolShard
	lastUsed  time.Time
	isDeleted bool
	_         [16]byte
}

// poolShard is one partition of a WorkerPool. fastSlot1/fastSlot2 are a
// two-entry CAS fast path for handing an idle worker straight back out
// without taking mutex; idleList is the overflow once both slots are full.
type poolShard struct {
	pool        *WorkerPool
	workerCache sync.Pool
	idleList    []*workerInstance
	fastSlot1   *workerInstance
	fastSlot2   *workerInstance
	mutex       spinMutex
	stopped     bool
}

// NewWorkerPool returns a pool sized to GOMAXPROCS shards with a one-second
// idle-worker lifetime; call Start before submitting tasks.
func NewWorkerPool() *WorkerPool {
	pool := &WorkerPool{
		idleWorkerLifetime: time.Second,
		numShards:          1,
	}

	pool.SetNumShards(runtime.GOMAXPROCS(0))
	return pool
}

// SetNumShards overrides the shard count (default GOMAXPROCS), clamped to
// [1, maxShards]. Call before Start.
func (pool *WorkerPool) SetNumShards(numShards int) {
	if numShards <= 1 {
		numShards = 1
	}

	if numShards > maxShards {
		numShards = maxShards
	}

	pool.numShards = numShards
}

// SetIdleWorkerLifetime overrides how long a worker sits idle before the
// cleanup sweep closes it down. Call before Start.
func (pool *WorkerPool) SetIdleWorkerLifetime(d time.Duration) {
	pool.idleWorkerLifetime = d
}

// GetSpawnedWorkers reports how many worker goroutines are currently alive
// across all shards, idle or busy.
func (pool *WorkerPool) GetSpawnedWorkers() int {
	return int(atomic.LoadUint64(&pool.spawnedWorkers))
}

// Start allocates the configured shards and launches the idle-worker
// cleanup sweep. A no-op if already started.
func (pool *WorkerPool) Start() {
	pool.mutex.Lock()
	if !pool.started {
		for i := 0; i < pool.numShards; i++ {
			shard := &poolShard{
				pool: pool,
				workerCache: sync.Pool{
					New: func() interface{} {
						return &workerInstance{
							taskChan: make(chan func()),
						}
					},
				},

				idleList: make([]*workerInstance, 0, 2048),
			}
			pool.shards = append(pool.shards, shard)
		}

		pool.started = true
	}
	pool.mutex.Unlock()

	go pool.reap()
}

// Stop closes every currently-idle worker's task channel so it exits; a
// worker mid-task finishes that task, observes the shard is stopped in
// release, and exits instead of rejoining the idle pool. Tasks already
// handed to a worker run to completion; no new task should be submitted
// after Stop returns.
func (pool *WorkerPool) Stop() {
	pool.mutex.Lock()
	if !pool.started {
		pool.mutex.Unlock()
		return
	}

	if !pool.stopped {

		for i := 0; i < pool.numShards; i++ {
			shard := pool.shards[i]
			shard.mutex.Lock()
			shard.stopped = true
			for j := 0; j < len(shard.idleList); j++ {
				if !shard.idleList[j].isDeleted {
					shard.idleList[j].isDeleted = true
					close(shard.idleList[j].taskChan)
				}
			}
			shard.mutex.Unlock()
		}
	}
	pool.stopped = true
	pool.mutex.Unlock()
}

// AddTask hands task to a worker on a pseudo-randomly chosen shard. Used by
// remote.Publish to submit each published actor's accept loop.
func (pool *WorkerPool) AddTask(task func()) error {
	if !pool.started {
		return errors.New("worker pool must be started first")
	}

	shard := pool.shards[shardSeed()%pool.numShards]
	shard.acquireWorker(task)

	return nil
}

// AddTaskForShard hands task to a worker on a caller-chosen shard instead
// of a random one, so related tasks can be pinned to a predictable shard.
func (pool *WorkerPool) AddTaskForShard(task func(), shardIdx int) error {
	if !pool.started {
		return errors.New("worker pool must be started first")
	}

	shard := pool.shards[shardIdx%pool.numShards]
	shard.acquireWorker(task)

	return nil
}

// acquireWorker hands task to a free worker, checking the two CAS fast-path
// slots before falling back to the shard's locked idle list, and finally
// spawning a brand-new worker if none was idle.
func (shard *poolShard) acquireWorker(task func()) (worker *workerInstance) {
	worker = shard.fastSlot1
	if worker != nil && atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&shard.fastSlot1)), unsafe.Pointer(worker), nil) {
		worker.taskChan <- task
		return worker
	}

	worker = shard.fastSlot2
	if worker != nil && atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&shard.fastSlot2)), unsafe.Pointer(worker), nil) {
		worker.taskChan <- task
		return worker
	}

	shard.mutex.Lock()
	n := len(shard.idleList)
	if n > 0 {
		worker = shard.idleList[n-1]
		shard.idleList[n-1] = nil
		shard.idleList = shard.idleList[0 : n-1]
		shard.mutex.Unlock()
		worker.taskChan <- task
		return worker
	}
	shard.mutex.Unlock()

	worker = shard.workerCache.Get().(*workerInstance)
	worker.shard = shard
	go worker.run()

	worker.taskChan <- task
	return worker
}

// run is a pooled goroutine's body: it executes whatever tasks arrive on
// taskChan until release reports the shard has stopped, then returns the
// worker to its shard's sync.Pool.
func (worker *workerInstance) run() {
	shard := worker.shard
	pool := shard.pool
	atomic.AddUint64(&pool.spawnedWorkers, +1)

	for task := range worker.taskChan {
		task()
		if !shard.release(worker) {
			break
		}
	}

	atomic.AddUint64(&pool.spawnedWorkers, ^uint64(0))
	shard.workerCache.Put(worker)
}

// release returns worker to the idle pool, trying the CAS fast-path slots
// first and falling back to the locked idle list. Reports false once the
// shard has been stopped, telling run to exit instead of going idle.
func (shard *poolShard) release(worker *workerInstance) bool {
	worker.lastUsed = time.Now()

	if shard.fastSlot2 == nil && atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&shard.fastSlot2)), nil, unsafe.Pointer(worker)) {
		return true
	}
	if shard.fastSlot1 == nil && atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&shard.fastSlot1)), nil, unsafe.Pointer(worker)) {
		return true
	}

	worker.shard.mutex.Lock()
	if !worker.shard.stopped {
		worker.shard.idleList = append(worker.shard.idleList, worker)
	}
	worker.shard.mutex.Unlock()
	return !worker.shard.stopped
}

// reap periodically closes workers that have sat idle past
// idleWorkerLifetime. Once a shard's idle list grows past 400 entries it
// binary-searches for the oldest still-fresh worker instead of scanning the
// whole list linearly.
func (pool *WorkerPool) reap() {
	var toClose []*workerInstance
	for {
		time.Sleep(pool.idleWorkerLifetime)
		if pool.stopped {
			return
		}

		now := time.Now()
		for i := 0; i < pool.numShards; i++ {
			shard := pool.shards[i]

			shard.mutex.Lock()
			idleList := shard.idleList
			n := len(idleList)
			j := 0
			s := 0

			if n > 400 {
				s = (n - 1) / 2
				for s > 0 && now.Sub(idleList[s].lastUsed) < pool.idleWorkerLifetime {
					s = s / 2
				}

				if s == 0 {
					shard.mutex.Unlock()
					continue
				}
			}

			for j = s; j < n; j++ {
				if now.Sub(idleList[j].lastUsed) < pool.idleWorkerLifetime {
					break
				}
			}

			if j == 0 {
				shard.mutex.Unlock()
				continue
			}

			toClose = append(toClose[:0], idleList[0:j]...)

			numMoved := copy(idleList, idleList[j:])
			for j = numMoved; j < n; j++ {
				idleList[j] = nil
			}
			shard.idleList = idleList[:numMoved]
			shard.mutex.Unlock()

			for j = 0; j < len(toClose); j++ {
				if !toClose[j].shard.stopped {
					close(toClose[j].taskChan)
				}
				toClose[j] = nil
			}
		}
	}
}

// spinMutex is a CAS spin-lock with Gosched-based exponential backoff,
// cheaper than sync.Mutex for the shard/pool critical sections here, which
// are all a handful of slice or field operations.
type spinMutex struct {
	state uint64
}

func (s *spinMutex) Lock() {
	backoff := 1
	for !atomic.CompareAndSwapUint64(&s.state, 0, 1) {
		for i := 0; i < backoff; i++ {
			runtime.Gosched()
		}
		if backoff < 32 {
			backoff <<= 1
		}
	}
}

func (s *spinMutex) Unlock() {
	atomic.StoreUint64(&s.state, 0)
}

// splitMix64 is a minimal SplitMix64 pseudo-random generator, fast enough to
// keep one instance per goroutine (via splitMix64Pool) for AddTask's shard
// selection without a shared-state bottleneck.
type splitMix64 struct {
	state uint64
}

// Init seeds the generator.
func (sm64 *splitMix64) Init(seed int64) {
	sm64.state = uint64(seed)
}

// Uint64 returns the next pseudo-random value.
func (sm64 *splitMix64) Uint64() uint64 {
	sm64.state = sm64.state + uint64(0x9E3779B97F4A7C15)
	z := sm64.state
	z = (z ^ (z >> 30)) * uint64(0xBF58476D1CE4E5B9)
	z = (z ^ (z >> 27)) * uint64(0x94D049BB133111EB)
	return z ^ (z >> 31)

}

// Int63 returns a non-negative pseudo-random 63-bit integer as an int64
func (sm64 *splitMix64) Int63() int64 {
	return int64(sm64.Uint64() & (1<<63 - 1))
}

var splitMix64Pool sync.Pool = sync.Pool{
	New: func() interface{} {
		sm64 := &splitMix64{}
		sm64.Init(time.Now().UnixNano())
		return sm64
	},
}

// shardSeed returns a pseudo-random non-negative int used by AddTask to
// pick a shard without contending on a single shared RNG.
func shardSeed() (r int) {
	sm64 := splitMix64Pool.Get().(*splitMix64)
	r = int(sm64.Int63())
	splitMix64Pool.Put(sm64)
	return
}
