package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsumer(t *testing.T) *Consumer {
	t.Helper()
	c := NewConsumer([]string{"127.0.0.1:1"}, "g", "order.placed", 2, logx.Discard())
	c.backoff = time.Millisecond
	t.Cleanup(func() { _ = c.r.Close() })
	return c
}

func TestConsumer_HandleRetriesUntilSuccess(t *testing.T) {
	c := newTestConsumer(t)
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		if calls < 2 {
			return errors.New("redis down")
		}
		return nil
	}

	require.NoError(t, c.handle(context.Background(), h, kafka.Message{}))
	assert.Equal(t, 2, calls)
}

func TestConsumer_HandleGivesUp(t *testing.T) {
	c := newTestConsumer(t)
	boom := errors.New("redis down")
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		return boom
	}

	assert.ErrorIs(t, c.handle(context.Background(), h, kafka.Message{}), boom)
	assert.Equal(t, handlerAttempts, calls)
}

func TestConsumer_HandleStopsOnCancel(t *testing.T) {
	c := newTestConsumer(t)
	c.backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		cancel()
		return errors.New("redis down")
	}

	assert.ErrorIs(t, c.handle(ctx, h, kafka.Message{}), context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWorkerFor_PinsPartition(t *testing.T) {
	assert.Equal(t, 0, workerFor(0, 4))
	assert.Equal(t, 1, workerFor(5, 4))
	assert.Equal(t, workerFor(7, 3), workerFor(7, 3))
	assert.Equal(t, 0, workerFor(3, 1))
}
