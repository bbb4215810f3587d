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

// Package remote is the informational hook of section 6: registration
// points an external transport uses to add a remote peer, publish a local
// actor on a listening socket, and unpublish by id. It is deliberately
// thin — one illustrative net.Conn-backed proxy Channel and the three
// registration operations the core specification names — and does not
// attempt to be a post office, a wire protocol, or a discovery mechanism.
package remote

import (
	"encoding/gob"
	"net"
	"sync"

	"github.com/relaycore/actorcore/actor"
)

// Proxy is a Channel backed by a net.Conn: Enqueue gob-encodes the envelope
// payload and writes it to the connection instead of delivering in-process.
// The core treats this exactly like any other Channel (it does not
// serialize on the sender's behalf) — encoding here is this illustrative
// transport's own concern, not the core's.
type Proxy struct {
	id   actor.ID
	conn net.Conn

	mu  sync.Mutex
	enc *gob.Encoder
}

// wireEnvelope is the illustrative, non-production wire representation: it
// carries only what gob can encode generically, so a payload type the
// remote end does not also register for gob will fail to decode. A real
// transport would define its own schema; this hook exists to prove the
// registration operations out, not to replace one.
type wireEnvelope struct {
	Payload any
}

// NewProxy wraps conn as a remote Channel representing the peer actor
// identified by id on the far end.
func NewProxy(id actor.ID, conn net.Conn) *Proxy {
	return &Proxy{id: id, conn: conn, enc: gob.NewEncoder(conn)}
}

// ID implements actor.Channel.
func (p *Proxy) ID() actor.ID { return p.id }

// Enqueue implements actor.Channel by writing the envelope's payload to the
// underlying connection. A write failure breaks the remote link; callers
// that also Link-ed a local control block to this proxy's id will not
// automatically learn of it here, since Proxy itself is not a
// ControlBlock — an external transport is expected to call
// actor.Lookup-style teardown when its read loop observes the connection
// close, terminating the local side with ReasonRemoteLinkBroken.
func (p *Proxy) Enqueue(env *actor.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.enc.Encode(wireEnvelope{Payload: env.Payload})
}

// Close closes the underlying connection.
func (p *Proxy) Close() error {
	return p.conn.Close()
}

var _ actor.Channel = (*Proxy)(nil)
