package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/redisx"
)

type loader interface {
	CurrencyRates(ctx context.Context, branchID string) ([]byte, Origin, error)
}

type cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

const loadTimeout = 3 * time.Second

// Result is an effective rate set and where it came from.
type Result struct {
	Rates  currency.RateSet `json:"rates"`
	Origin Origin           `json:"origin"`
	Cached bool             `json:"cached"`
}

type cached struct {
	Rates  currency.RateSet `json:"rates"`
	Origin Origin           `json:"origin"`
}

// Service resolves the rate set of a branch. It never fails: any problem with
// the business rules ends in the default rate set.
type Service struct {
	loader   loader
	cache    cache // nil disables caching
	ttl      time.Duration
	defaults currency.RateSet
	l        *logger.Logger
	group    singleflight.Group
}

func NewService(l *logger.Logger, ld loader, c cache, ttl time.Duration, defaults currency.RateSet) *Service {
	return &Service{
		loader:   ld,
		cache:    c,
		ttl:      ttl,
		defaults: defaults.Normalize(),
		l:        l.Named("rates"),
	}
}

func cacheKey(branchID string) string {
	if branchID == "" {
		branchID = redisx.GlobalBranch
	}
	return fmt.Sprintf(redisx.KeyRates, branchID)
}

func (s *Service) RateSet(ctx context.Context, branchID string) Result {
	key := cacheKey(branchID)

	if s.cache != nil {
		if b, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var c cached
			if json.Unmarshal(b, &c) == nil {
				return Result{Rates: c.Rates.Normalize(), Origin: c.Origin, Cached: true}
			}
		}
	}

	// satu query per cabang walau banyak sesi minta bersamaan
	// callers waiting on the same load must not inherit the first caller's cancellation
	v, _, _ := s.group.Do(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(lctx, branchID, key), nil
	})
	return v.(Result)
}

func (s *Service) load(ctx context.Context, branchID, key string) Result {
	if s.loader == nil {
		return Result{Rates: s.defaults, Origin: OriginDefault}
	}

	gen := s.generation(ctx)
	payload, origin, err := s.loader.CurrencyRates(ctx, branchID)
	if err != nil {
		s.l.Errorf("load business rules branch=%q: %v; using defaults", branchID, err)
		return Result{Rates: s.defaults, Origin: OriginDefault}
	}
	if origin == OriginDefault {
		s.l.Infof("no business rules for branch=%q; using defaults", branchID)
		return Result{Rates: s.defaults, Origin: OriginDefault}
	}

	rs, complete := Parse(payload, s.defaults)
	if !complete {
		s.l.Infof("incomplete currency_rates for branch=%q; defaults filled in", branchID)
	}

	res := Result{Rates: rs, Origin: origin}
	if s.cache != nil {
		if s.generation(ctx) != gen {
			s.l.Infof("rates for branch=%q invalidated while loading; not cached", branchID)
			return res
		}
		b, _ := json.Marshal(cached{Rates: rs, Origin: origin})
		if err := s.cache.Set(ctx, key, b, s.ttl).Err(); err != nil {
			s.l.Errorf("cache rates branch=%q: %v", branchID, err)
		}
	}
	return res
}

// generation is the invalidation counter; 0 when unset or unreadable.
func (s *Service) generation(ctx context.Context) int64 {
	if s.cache == nil {
		return 0
	}
	n, err := s.cache.Get(ctx, redisx.KeyRatesGen).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Invalidate drops the cached rate set of a branch. A global change ("")
// drops every branch, since branches without an override inherit it.
func (s *Service) Invalidate(ctx context.Context, branchID string) error {
	if s.cache == nil {
		return nil
	}
	// bump first: a load racing with the delete below sees the new generation
	if err := s.cache.Incr(ctx, redisx.KeyRatesGen).Err(); err != nil {
		return fmt.Errorf("bump rate generation: %w", err)
	}
	if branchID != "" {
		return s.cache.Del(ctx, cacheKey(branchID)).Err()
	}

	var cursor uint64
	for {
		keys, next, err := s.cache.Scan(ctx, cursor, fmt.Sprintf(redisx.KeyRates, "*"), 100).Result()
		if err != nil {
			return fmt.Errorf("scan rate keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete rate keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
