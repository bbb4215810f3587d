// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	assert.NotNil(t, DefaultLogger)
	var _ Logger = DefaultLogger
}

func TestZapWritesJSONAtAndAboveConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZap(WarningLevel, &buf)

	logger.Debugf("dropped %d", 1)
	logger.Infof("dropped %d", 2)
	assert.Empty(t, buf.String(), "Debug/Info must be filtered below WarningLevel")

	logger.Warnf("seen %d", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "seen 3", entry["msg"])
}

func TestZapLogLevelPairs(t *testing.T) {
	tests := []struct {
		name      string
		log       func(z *Zap)
		wantLevel string
		wantMsg   string
	}{
		{"Debug", func(z *Zap) { z.Debug("a", "b") }, "debug", "ab"},
		{"Debugf", func(z *Zap) { z.Debugf("%s-%s", "a", "b") }, "debug", "a-b"},
		{"Info", func(z *Zap) { z.Info("a", "b") }, "info", "ab"},
		{"Infof", func(z *Zap) { z.Infof("%s-%s", "a", "b") }, "info", "a-b"},
		{"Warn", func(z *Zap) { z.Warn("a", "b") }, "warn", "ab"},
		{"Warnf", func(z *Zap) { z.Warnf("%s-%s", "a", "b") }, "warn", "a-b"},
		{"Error", func(z *Zap) { z.Error("a", "b") }, "error", "ab"},
		{"Errorf", func(z *Zap) { z.Errorf("%s-%s", "a", "b") }, "error", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewZap(DebugLevel, &buf)
			tt.log(logger)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["msg"])
		})
	}
}

func TestZapWritesToMultipleOutputs(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewZap(InfoLevel, &a, &b)
	logger.Info("fanout")

	assert.True(t, strings.Contains(a.String(), "fanout"))
	assert.True(t, strings.Contains(b.String(), "fanout"))
}
