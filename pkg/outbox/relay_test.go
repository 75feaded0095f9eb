package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trendkart/order-service/pkg/logging"
)

type fakeStore struct {
	pending []Event
	sent    []int64
	failed  map[int64]string
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]Event, error) {
	if len(s.pending) == 0 {
		return nil, nil
	}
	n := min(batchSize, len(s.pending))
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []int64) error {
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	if s.failed == nil {
		s.failed = map[int64]string{}
	}
	s.failed[id] = errMsg
	return nil
}

func (s *fakeStore) ExtendLease(context.Context, string, []int64, time.Duration) error {
	return nil
}

type fakeProducer struct {
	messages []kafka.Message
	failKeys map[string]bool
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if p.failKeys[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		p.messages = append(p.messages, m)
	}
	return nil
}

func TestDispatch_Headers(t *testing.T) {
	producer := &fakeProducer{}
	d := NewDispatcher(logging.New(), producer, "order.events")

	err := d.Dispatch(context.Background(), Event{
		ID:          1,
		AggregateID: "order-1",
		Type:        "OrderPlaced",
		Payload:     []byte(`{}`),
		Traceparent: "00-abc-def-01",
	})
	require.NoError(t, err)
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, "order.events", msg.Topic)
	assert.Equal(t, "order-1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "OrderPlaced", headers["event_type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])
}

func TestRelay_DrainMarksSentAndFailed(t *testing.T) {
	store := &fakeStore{pending: []Event{
		{ID: 1, AggregateID: "order-1", Type: "OrderPlaced"},
		{ID: 2, AggregateID: "order-2", Type: "OrderPlaced"},
		{ID: 3, AggregateID: "order-3", Type: "OrderStatusChanged"},
	}}
	producer := &fakeProducer{failKeys: map[string]bool{"order-2": true}}
	log := logging.New()
	relay := NewRelay(log, store, NewDispatcher(log, producer, "order.events"), "test-relay")

	relay.drain(context.Background())

	assert.ElementsMatch(t, []int64{1, 3}, store.sent)
	assert.Contains(t, store.failed, int64(2))
	assert.Len(t, producer.messages, 2)
}

func TestRelay_RunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	log := logging.New()
	relay := NewRelay(log, store, NewDispatcher(log, &fakeProducer{}, "order.events"), "test-relay")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
