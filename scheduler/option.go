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
	"github.com/relaycore/actorcore/actor"
	"github.com/relaycore/actorcore/log"
)

// Hint selects how a spawned actor is executed (4.2, GLOSSARY
// "Scheduling hint").
type Hint int

const (
	// Scheduled multiplexes the actor onto the worker pool.
	Scheduled Hint = iota
	// Detached gives the actor its own OS thread for blocking receives
	// (4.2.2).
	Detached
)

type spawnConfig struct {
	hidden       bool
	mailbox      actor.Mailbox
	logger       log.Logger
	initCallback func(*actor.Context) error
}

// SpawnOption configures a single Spawn call.
type SpawnOption func(*spawnConfig)

// WithHidden excludes the spawned actor from the actor-count registry, so
// AwaitAllOthersDone ignores it (E.3's generalized scheduled_and_hidden /
// detached_and_hidden hint). Used for internal service actors like the
// time emitter.
func WithHidden() SpawnOption {
	return func(c *spawnConfig) { c.hidden = true }
}

// WithMailbox overrides the default BlockingMailbox for this actor.
func WithMailbox(mb actor.Mailbox) SpawnOption {
	return func(c *spawnConfig) { c.mailbox = mb }
}

// WithSpawnLogger attaches a logger to the spawned actor's control block.
func WithSpawnLogger(logger log.Logger) SpawnOption {
	return func(c *spawnConfig) { c.logger = logger }
}

// WithInitCallback runs fn against a detached-style Context for the new
// actor between registration and its first message (4.2.3). fn is retried
// up to DefaultInitMaxRetries times (E.2); if every attempt fails, Spawn
// returns a *actor.SpawnError and the actor never starts running.
func WithInitCallback(fn func(*actor.Context) error) SpawnOption {
	return func(c *spawnConfig) { c.initCallback = fn }
}

func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	c := &spawnConfig{logger: log.DiscardLogger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
