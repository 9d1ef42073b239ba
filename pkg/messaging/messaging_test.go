package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, context.Canceled
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("writes json keyed message", func(t *testing.T) {
		w := new(mockWriter)
		p := newProducer(w, "booking-events")
		p.now = func() time.Time { return fixed }

		w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			var body map[string]any
			if err := json.Unmarshal(msgs[0].Value, &body); err != nil {
				return false
			}
			return msgs[0].Topic == "booking-events" &&
				string(msgs[0].Key) == "CNFABC" &&
				body["type"] == "booking.confirmed" &&
				msgs[0].Time.Equal(fixed)
		})).Return(nil)

		err := p.Publish(context.Background(), "CNFABC", map[string]string{"type": "booking.confirmed"})

		assert.NoError(t, err)
		w.AssertExpectations(t)
	})

	t.Run("wraps writer failure", func(t *testing.T) {
		w := new(mockWriter)
		p := newProducer(w, "booking-events")
		w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

		err := p.Publish(context.Background(), "k", struct{}{})

		assert.ErrorContains(t, err, "leader not available")
	})

	t.Run("rejects unmarshalable payload", func(t *testing.T) {
		w := new(mockWriter)
		p := newProducer(w, "booking-events")

		err := p.Publish(context.Background(), "k", make(chan int))

		assert.ErrorContains(t, err, "marshal")
		w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestConsumer_Consume(t *testing.T) {
	t.Run("commits after each handled message", func(t *testing.T) {
		r := &fakeReader{msgs: []kafka.Message{{Offset: 1}, {Offset: 2}}}
		c := &Consumer{reader: r}

		var handled []int64
		err := c.Consume(context.Background(), func(ctx context.Context, msg kafka.Message) error {
			handled = append(handled, msg.Offset)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, handled)
		assert.Equal(t, []int64{1, 2}, r.committed)
	})

	t.Run("handler failure stops without commit", func(t *testing.T) {
		r := &fakeReader{msgs: []kafka.Message{{Offset: 5}}}
		c := &Consumer{reader: r}

		err := c.Consume(context.Background(), func(ctx context.Context, msg kafka.Message) error {
			return errors.New("bad payload")
		})

		assert.ErrorContains(t, err, "offset 5")
		assert.Empty(t, r.committed)
	})
}
