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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/relaycore/actorcore/actor"
)

func TestAddLookupRemovePeer(t *testing.T) {
	cb := actor.NewControlBlock()
	defer cb.Quit(actor.ReasonNormal)

	server, client := net.Pipe()
	defer server.Close()
	proxy := NewProxy(cb.ID(), client)
	defer proxy.Close()

	AddPeer(cb.ID(), proxy)
	got, ok := LookupPeer(cb.ID())
	assert.True(t, ok)
	assert.Same(t, proxy, got)

	RemovePeer(cb.ID())
	_, ok = LookupPeer(cb.ID())
	assert.False(t, ok)
}

func TestLookupPeerMissingReturnsFalse(t *testing.T) {
	_, ok := LookupPeer(actor.NextID())
	assert.False(t, ok)
}

func TestPublishDeliversDecodedPayloadToMailbox(t *testing.T) {
	cb := actor.NewControlBlock()
	defer cb.Quit(actor.ReasonNormal)

	ln, err := Publish(cb)
	require.NoError(t, err)
	defer Unpublish(cb.ID())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, gob.NewEncoder(conn).Encode(wireEnvelope{Payload: "hello-over-the-wire"}))

	env := cb.Mailbox().Dequeue()
	require.NotNil(t, env)
	assert.Equal(t, "hello-over-the-wire", env.Payload)
}

func TestUnpublishStopsAcceptingConnections(t *testing.T) {
	cb := actor.NewControlBlock()
	defer cb.Quit(actor.ReasonNormal)

	ln, err := Publish(cb)
	require.NoError(t, err)
	addr := ln.Addr().String()

	require.NoError(t, Unpublish(cb.ID()))

	// Closing the listener means new dials eventually fail; allow the
	// accept loop's goroutine to observe the close first.
	time.Sleep(20 * time.Millisecond)
	_, err = net.Dial("tcp", addr)
	assert.Error(t, err)
}

// TestProxyEnqueueWritesGobEncodedPayload drives a Proxy over a real TCP
// connection bound to a dynaport-allocated port, rather than net.Pipe, so it
// exercises the same address-allocation path a caller dialing a Published
// peer would use.
func TestProxyEnqueueWritesGobEncodedPayload(t *testing.T) {
	port := dynaport.Get(1)[0]
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	client, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer client.Close()

	var server net.Conn
	select {
	case server = <-accepted:
		defer server.Close()
	case <-time.After(time.Second):
		t.Fatal("listener never accepted the dial")
	}

	cb := actor.NewControlBlock()
	defer cb.Quit(actor.ReasonNormal)
	proxy := NewProxy(cb.ID(), client)

	done := make(chan wireEnvelope, 1)
	go func() {
		var w wireEnvelope
		_ = gob.NewDecoder(server).Decode(&w)
		done <- w
	}()

	proxy.Enqueue(actor.NewEnvelope(nil, proxy, "over-the-wire"))

	select {
	case w := <-done:
		assert.Equal(t, "over-the-wire", w.Payload)
	case <-time.After(time.Second):
		t.Fatal("proxy did not write to the connection")
	}
}
