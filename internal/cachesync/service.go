package cachesync

import (
	"context"
	"fmt"
	"log/slog"

	kafkax "github.com/ariefcatur/go-store-api/internal/kafka"
	"github.com/ariefcatur/go-store-api/internal/orders"
	"github.com/ariefcatur/go-store-api/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service evicts cached products whose stock an order changed.
type Service struct {
	Redis redis.Cmdable
	Log   *slog.Logger
}

// HandleOrderPlaced is installed as the consumer handler. Undecodable
// messages are skipped; a Redis failure is returned so the consumer retries.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		s.Log.Warn("skipping undecodable message", "offset", m.Offset, "error", err)
		return nil
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		s.Log.Warn("skipping undecodable payload", "event_id", env.EventID, "error", err)
		return nil
	}
	ids := p.ProductIDs()
	if len(ids) == 0 {
		return nil
	}

	if err := s.Redis.Del(ctx, redisx.ProductKeys(ids)...).Err(); err != nil {
		return fmt.Errorf("evict products for order %s: %w", p.OrderID, err)
	}
	s.Log.Debug("product cache evicted", "order_id", p.OrderID, "trace_id", env.TraceID, "product_ids", ids)
	return nil
}
