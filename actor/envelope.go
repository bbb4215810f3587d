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

package actor

// Envelope is the unit of delivery: a payload together with the sender
// reference it was sent from (or nil, for an anonymous send) and an
// optional response id correlating a Reply back to a pending request.
type Envelope struct {
	// Sender is the channel that produced this envelope, or nil if it was
	// sent anonymously. Reply targets Sender.
	Sender Channel
	// Receiver is the channel this envelope was addressed to. Groups
	// rewrite Receiver per fanned-out copy.
	Receiver Channel
	// Payload is an opaque value. The core never inspects it; matching is
	// entirely the caller's responsibility via InvokeRules.
	Payload any
	// ResponseID correlates a reply with the request that asked for it.
	// Nil means this envelope is not a correlated reply.
	ResponseID *uint64
}

// exitSignal is the payload the default exit-handling behavior recognizes
// (4.4). It is never exposed outside this package as a message type users
// match against directly; behaviors recognize it with IsExitSignal and
// hand it to HandleExitSignal.
type exitSignal struct {
	from   ID
	reason ExitReason
}

// NewEnvelope builds an envelope addressed to receiver from sender, with no
// response correlation.
func NewEnvelope(sender, receiver Channel, payload any) *Envelope {
	return &Envelope{Sender: sender, Receiver: receiver, Payload: payload}
}

// NewReply builds an envelope addressed to receiver correlated to id.
func NewReply(sender, receiver Channel, id uint64, payload any) *Envelope {
	rid := id
	return &Envelope{Sender: sender, Receiver: receiver, Payload: payload, ResponseID: &rid}
}
