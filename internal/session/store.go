package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelhub/order-composer/internal/orders"
	"github.com/travelhub/order-composer/internal/redisx"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session modified concurrently")
)

const maxAttempts = 5

// Store keeps one orders.Composition per editing session in Redis. The value
// expires after TTL of inactivity; every update refreshes it.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf(redisx.KeySession, id) }

func (s *Store) Create(ctx context.Context, c orders.Composition) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, key(c.SessionID), b, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", c.SessionID, err)
	}
	if !ok {
		return fmt.Errorf("create session %s: %w", c.SessionID, ErrConflict)
	}
	return nil
}

func decode(b []byte, id string) (orders.Composition, error) {
	var c orders.Composition
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("decode session %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) Get(ctx context.Context, id string) (orders.Composition, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return orders.Composition{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return orders.Composition{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return decode(b, id)
}

// Update runs fn on the current composition and stores its result. The write
// only lands when nobody changed the session in between; otherwise fn is
// retried on the fresh value.
func (s *Store) Update(ctx context.Context, id string, fn func(orders.Composition) (orders.Composition, error)) (orders.Composition, error) {
	k := key(id)
	var out orders.Composition

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		cur, err := decode(b, id)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		nb, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, nb, s.ttl)
			return nil
		})
		if err == nil {
			out = next
		}
		return err
	}

	for i := 0; i < maxAttempts; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return orders.Composition{}, err
		}
		return out, nil
	}
	return orders.Composition{}, fmt.Errorf("session %s: %w", id, ErrConflict)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
