package cachesync

import (
	"context"
	"errors"
	"testing"

	kafkax "github.com/ariefcatur/go-store-api/internal/kafka"
	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/ariefcatur/go-store-api/internal/orders"
	"github.com/go-redis/redismock/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPlacedMessage(t *testing.T, o orders.Order) kafkago.Message {
	t.Helper()
	env := kafkax.NewEnvelope(orders.EventOrderPlaced, "store-api", "req-1", o.ID, orders.NewOrderPlacedPayload(o))
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderPlaced_EvictsEveryProduct(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &Service{Redis: rdb, Log: logx.Discard()}
	msg := orderPlacedMessage(t, orders.Order{ID: "o-1", UserID: 7, Lines: []orders.Line{
		{ProductID: 1, Quantity: 2, PriceCents: 150},
		{ProductID: 3, Quantity: 1, PriceCents: 20},
	}})

	mock.ExpectDel("product:1", "product:3").SetVal(2)

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderPlaced_RedisErrorIsReturned(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &Service{Redis: rdb, Log: logx.Discard()}
	msg := orderPlacedMessage(t, orders.Order{ID: "o-1", Lines: []orders.Line{{ProductID: 1, Quantity: 1}}})

	mock.ExpectDel("product:1").SetErr(errors.New("READONLY"))

	assert.Error(t, svc.HandleOrderPlaced(context.Background(), msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderPlaced_SkipsForeignAndBrokenMessages(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := &Service{Redis: rdb, Log: logx.Discard()}
	other := kafkax.NewEnvelope("SomethingElse", "x", "", "k", map[string]int{"a": 1})

	assert.NoError(t, svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: []byte("{oops")}))
	assert.NoError(t, svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(other)}))
	require.NoError(t, mock.ExpectationsWereMet())
}
