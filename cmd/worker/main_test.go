package main

import (
	"airbook/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompleter) CompleteDeparted(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestRunSweeper_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countingCompleter{err: errors.New("store down")}
	done := make(chan struct{})

	go func() {
		runSweeper(ctx, c, 5*time.Millisecond, logger.NewWithWriter("test", &bytes.Buffer{}))
		close(done)
	}()

	require.Eventually(t, func() bool { return c.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestBookingEventHandler(t *testing.T) {
	var buf bytes.Buffer
	handle := bookingEventHandler(logger.NewWithWriter("test", &buf))

	payload, err := json.Marshal(map[string]any{
		"type":              "booking.refunded",
		"booking_id":        "42",
		"confirmation_code": "CNFABC",
		"passengers":        2,
	})
	require.NoError(t, err)

	require.NoError(t, handle(context.Background(), kafka.Message{Value: payload}))
	assert.Contains(t, buf.String(), "CNFABC")
	assert.Contains(t, buf.String(), "booking.refunded")

	buf.Reset()
	require.NoError(t, handle(context.Background(), kafka.Message{Value: []byte("{nope"), Offset: 7}))
	assert.Contains(t, buf.String(), "skipping malformed booking event")
}
