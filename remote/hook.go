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

package remote

import (
	"encoding/gob"
	"fmt"
	"net"
	"sync"

	sockaddr "github.com/hashicorp/go-sockaddr"

	"github.com/relaycore/actorcore/actor"
	"github.com/relaycore/actorcore/internal/workerpool"
)

var (
	mu        sync.Mutex
	peers     = map[actor.ID]*Proxy{}
	listeners = map[actor.ID]net.Listener{}

	pool     = workerpool.NewWorkerPool()
	poolOnce sync.Once
)

// ensurePool lazily starts the shared worker pool that runs every
// published actor's accept and connection-read loops, so a process that
// never calls Publish never pays for idle worker goroutines.
func ensurePool() *workerpool.WorkerPool {
	poolOnce.Do(pool.Start)
	return pool
}

// AddPeer registers proxy as the local representative of a remote peer
// identified by id, given the socket descriptor the external transport
// already accepted or dialed (section 6(a)). The core never dials or
// accepts sockets itself; this is purely bookkeeping so local code can look
// a remote peer's proxy channel up by id.
func AddPeer(id actor.ID, proxy *Proxy) {
	mu.Lock()
	defer mu.Unlock()
	peers[id] = proxy
}

// LookupPeer returns the proxy registered for id, if any.
func LookupPeer(id actor.ID) (*Proxy, bool) {
	mu.Lock()
	defer mu.Unlock()
	p, ok := peers[id]
	return p, ok
}

// RemovePeer forgets the proxy registered for id without closing its
// connection; callers that own the connection should Close it themselves.
func RemovePeer(id actor.ID) {
	mu.Lock()
	defer mu.Unlock()
	delete(peers, id)
}

// Publish opens a listener on a private, routable bind address and accepts
// connections on behalf of local, binding each accepted connection's writes
// to cb's mailbox (section 6(b)). Each accepted connection is read as a
// stream of gob-encoded payloads (the Proxy wire format) and delivered to
// cb as an anonymous envelope.
//
// This is the illustrative half of the hook: a real transport would frame
// and multiplex many actors over one socket. Publish exists to prove (b)
// out, one listener per published actor.
func Publish(cb *actor.ControlBlock) (net.Listener, error) {
	addr, err := sockaddr.GetPrivateIP()
	if err != nil || addr == "" {
		addr = "127.0.0.1"
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:0", addr))
	if err != nil {
		return nil, err
	}

	mu.Lock()
	listeners[cb.ID()] = ln
	mu.Unlock()

	wp := ensurePool()
	_ = wp.AddTask(func() { acceptLoop(wp, ln, cb) })
	return ln, nil
}

func acceptLoop(wp *workerpool.WorkerPool, ln net.Listener, cb *actor.ControlBlock) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		c := conn
		_ = wp.AddTask(func() { readLoop(c, cb) })
	}
}

func readLoop(conn net.Conn, cb *actor.ControlBlock) {
	defer conn.Close()
	dec := gob.NewDecoder(conn)
	for {
		var w wireEnvelope
		if err := dec.Decode(&w); err != nil {
			cb.Quit(actor.ReasonRemoteLinkBroken)
			return
		}
		cb.Channel().Enqueue(actor.NewEnvelope(nil, cb.Channel(), w.Payload))
	}
}

// Unpublish stops accepting new connections for id and forgets its
// listener (section 6(c)). Connections already accepted keep running until
// their own read loop observes a disconnect.
func Unpublish(id actor.ID) error {
	mu.Lock()
	ln, ok := listeners[id]
	delete(listeners, id)
	mu.Unlock()
	if !ok {
		return nil
	}
	return ln.Close()
}
