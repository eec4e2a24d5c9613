package ratesync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/travelhub/order-composer/internal/kafka"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/orders"
	"github.com/travelhub/order-composer/internal/rates"
	"github.com/travelhub/order-composer/internal/redisx"
)

type rateCache interface {
	Invalidate(ctx context.Context, branchID string) error
	RateSet(ctx context.Context, branchID string) rates.Result
}

type deduper interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Service struct {
	Rates       rateCache
	Redis       deduper
	ServiceName string
	L           *logger.Logger
}

// HandleRatesUpdated: dipasang sebagai handler consumer. Drops the cached rate
// set of the branch and loads it again so the next session gets fresh rates.
func (s *Service) HandleRatesUpdated(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.Header(m.Headers, "x-event-type"); t != "" && t != orders.EventRatesUpdated {
		return nil
	}

	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah sukses; commit saja
		s.L.Errorf("drop undecodable message offset=%d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != orders.EventRatesUpdated {
		return nil
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.RatesUpdatedPayload](env.Payload)
	if err != nil {
		s.L.Errorf("drop event %s: %v", env.EventID, err)
		return nil
	}

	if err := s.Rates.Invalidate(ctx, p.BranchID); err != nil {
		// lepas dedup supaya redelivery bisa mencoba lagi
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("invalidate rates branch=%q: %w", p.BranchID, err)
	}

	res := s.Rates.RateSet(ctx, p.BranchID)
	s.L.Infof("rates refreshed branch=%q origin=%s sar_to_idr=%s usd_to_idr=%s",
		p.BranchID, res.Origin, res.Rates.SARToIDR, res.Rates.USDToIDR)
	return nil
}
