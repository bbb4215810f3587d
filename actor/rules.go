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

// InvokeRules decides, for a single envelope, whether a selective receive
// should consume it. The core never inspects payloads itself; matching is
// entirely delegated to caller-supplied rules (GLOSSARY: "Selective
// receive").
//
// Match is called once per envelope scanned, in arrival order. Returning
// true consumes the envelope and stops the scan; returning false leaves it
// in the skip buffer and scanning continues with the next envelope.
type InvokeRules interface {
	Match(env *Envelope) bool
}

// RuleFunc adapts a plain function to InvokeRules.
type RuleFunc func(env *Envelope) bool

// Match implements InvokeRules.
func (f RuleFunc) Match(env *Envelope) bool { return f(env) }

// Any matches every envelope; equivalent to unconditional Dequeue but
// expressible as a rule set where one is required.
func Any() InvokeRules {
	return RuleFunc(func(*Envelope) bool { return true })
}

// PayloadOf matches envelopes whose Payload satisfies pred.
func PayloadOf(pred func(payload any) bool) InvokeRules {
	return RuleFunc(func(env *Envelope) bool { return pred(env.Payload) })
}

// IsExitSignal reports whether env carries the exit-signal payload the
// default link behavior recognizes (4.4). Event-based actors that override
// exit trapping use this to detect the signal without depending on the
// unexported exitSignal type directly.
func IsExitSignal(env *Envelope) (from ID, reason ExitReason, ok bool) {
	sig, ok := env.Payload.(exitSignal)
	if !ok {
		return 0, 0, false
	}
	return sig.from, sig.reason, true
}

var _ InvokeRules = RuleFunc(nil)
