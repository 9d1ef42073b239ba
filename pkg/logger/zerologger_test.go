package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "raw: %s", buf.String())
	return line
}

func TestZeroLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		emit  func(l Logger)
		level string
	}{
		{"debug in development", "development", func(l Logger) { l.Debug("msg") }, "debug"},
		{"info", "production", func(l Logger) { l.Info("msg") }, "info"},
		{"warn", "production", func(l Logger) { l.Warn("msg") }, "warn"},
		{"error", "production", func(l Logger) { l.Error("msg") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.emit(NewWithWriter(tt.env, buf))

			line := decodeLine(t, buf)
			assert.Equal(t, tt.level, line["level"])
			assert.Equal(t, "msg", line["message"])
			assert.Contains(t, line, "time")
		})
	}
}

func TestZeroLogger_ProductionDropsDebug(t *testing.T) {
	prodBuf := &bytes.Buffer{}
	devBuf := &bytes.Buffer{}

	NewWithWriter("production", prodBuf).Debug("hidden")
	NewWithWriter("development", devBuf).Debug("shown")

	assert.Zero(t, prodBuf.Len())
	assert.Contains(t, devBuf.String(), "shown")
}

func TestZeroLogger_TypedFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("booking confirmed",
		Field{Key: "code", Value: "CNF4F2A9C"},
		Field{Key: "seats", Value: 3},
		Field{Key: "booking_id", Value: int64(1789)},
		Field{Key: "refunded", Value: false},
		Field{Key: "took", Value: 1500 * time.Millisecond},
		Field{Key: "meta", Value: map[string]int{"attempt": 2}},
		Err(errors.New("connection refused")),
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "CNF4F2A9C", line["code"])
	assert.EqualValues(t, 3, line["seats"])
	assert.EqualValues(t, 1789, line["booking_id"])
	assert.Equal(t, false, line["refunded"])
	assert.EqualValues(t, 1500, line["took"])
	assert.Equal(t, map[string]any{"attempt": float64(2)}, line["meta"])
	assert.Equal(t, "connection refused", line["err"])
}

func TestZeroLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := NewWithWriter("development", buf)
	child := parent.With(Field{Key: "process", Value: "worker"})

	child.Info("tick")
	line := decodeLine(t, buf)
	assert.Equal(t, "worker", line["process"])

	buf.Reset()
	parent.Info("plain")
	line = decodeLine(t, buf)
	assert.NotContains(t, line, "process")
}
