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

	"go.opentelemetry.io/otel/metric"
)

// instruments holds the optional otel instruments a ThreadPoolScheduler
// publishes when WithMetrics is set (E.2). Every method is a no-op if meter
// was nil at construction time, so call sites never need a nil check.
type instruments struct {
	queueDepth    metric.Int64ObservableGauge
	actorGauge    metric.Int64ObservableGauge
	processedCtrs []metric.Int64Counter
}

func newInstruments(meter metric.Meter, tp *ThreadPoolScheduler) *instruments {
	if meter == nil {
		return nil
	}
	in := &instruments{}

	queueDepth, err := meter.Int64ObservableGauge(
		"actorcore.scheduler.runnable_queue_depth",
		metric.WithDescription("total runnable actors queued across all shards"),
	)
	if err == nil {
		in.queueDepth = queueDepth
	}

	actorGauge, err := meter.Int64ObservableGauge(
		"actorcore.scheduler.actor_count",
		metric.WithDescription("current value of the actor-count registry"),
	)
	if err == nil {
		in.actorGauge = actorGauge
	}

	var observables []metric.Observable
	if in.queueDepth != nil {
		observables = append(observables, in.queueDepth)
	}
	if in.actorGauge != nil {
		observables = append(observables, in.actorGauge)
	}
	if len(observables) > 0 {
		_, _ = meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
			if in.queueDepth != nil {
				obs.ObserveInt64(in.queueDepth, tp.queueDepth())
			}
			if in.actorGauge != nil {
				obs.ObserveInt64(in.actorGauge, ActorCount())
			}
			return nil
		}, observables...)
	}

	in.processedCtrs = make([]metric.Int64Counter, tp.numShards())
	for i := range in.processedCtrs {
		ctr, err := meter.Int64Counter(
			"actorcore.scheduler.messages_processed",
			metric.WithDescription("messages processed by one scheduler worker"),
		)
		if err == nil {
			in.processedCtrs[i] = ctr
		}
	}
	return in
}

func (in *instruments) recordProcessed(ctx context.Context, shard int) {
	if in == nil || shard >= len(in.processedCtrs) || in.processedCtrs[shard] == nil {
		return
	}
	in.processedCtrs[shard].Add(ctx, 1)
}
