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

// Package duration renders a time.Duration the way delay.Timer logs
// delivery drift: biggest unit first, smallest non-zero units only, no
// fixed-width padding.
package duration

import (
	"strings"
	"time"
)

// unit pairs a duration's printed suffix with its size in nanoseconds.
type unit struct {
	suffix string
	ns     uint64
}

// units is ordered largest-first so Format can greedily peel off whole
// multiples of each one before moving to the next.
var units = []unit{
	{"y", 365 * 24 * uint64(time.Hour)},
	{"mo", 30 * 24 * uint64(time.Hour)},
	{"w", 7 * 24 * uint64(time.Hour)},
	{"d", 24 * uint64(time.Hour)},
	{"h", uint64(time.Hour)},
	{"m", uint64(time.Minute)},
	{"s", uint64(time.Second)},
	{"ms", uint64(time.Millisecond)},
	{"us", uint64(time.Microsecond)},
	{"ns", uint64(time.Nanosecond)},
}

// Format renders d as a sequence of "<value><unit>" tokens from largest to
// smallest non-zero unit, e.g. "2h 15m" or "1y 1mo 5d". Months and years
// are approximated as 30 and 365 days; a negative duration renders as
// "0s", since delay.Timer only ever formats a non-negative drift.
func Format(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	remaining := uint64(d)
	var tokens []string
	for _, u := range units {
		if remaining < u.ns {
			continue
		}
		count := remaining / u.ns
		tokens = append(tokens, itoa(count)+u.suffix)
		remaining -= count * u.ns
	}

	if len(tokens) == 0 {
		return "0s"
	}
	return strings.Join(tokens, " ")
}

// itoa is a minimal uint64-to-string conversion, avoiding a strconv import
// for what Format only ever needs: a plain base-10 digit sequence.
func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = '0' + byte(v%10)
		v /= 10
	}
	return string(buf[i:])
}
