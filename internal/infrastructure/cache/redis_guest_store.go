package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultGuestKeyPrefix = "cart:guest:"
	maxUpdateAttempts     = 5
)

// RedisGuestStore implements cart.GuestStore using Redis.
// This is suitable for distributed deployments where multiple instances
// need to share guest carts. Each cart is a JSON value under prefix+token.
type RedisGuestStore struct {
	client    *redis.Client
	keyPrefix string
	lifetime  time.Duration
}

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisGuestStore creates a store with an existing Redis client
func NewRedisGuestStore(client *redis.Client, keyPrefix string, lifetime time.Duration) *RedisGuestStore {
	if keyPrefix == "" {
		keyPrefix = defaultGuestKeyPrefix
	}
	return &RedisGuestStore{
		client:    client,
		keyPrefix: keyPrefix,
		lifetime:  lifetime,
	}
}

// Load returns the guest cart; unknown tokens and malformed values yield an empty cart
func (s *RedisGuestStore) Load(ctx context.Context, token string) (*cart.GuestCart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.NewGuestCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}
	return cart.DecodeGuestCart(data), nil
}

// Update applies fn under WATCH and writes the result in a MULTI block.
// A concurrent write to the same cart aborts the transaction and the update
// is retried with fresh data, so fn may run more than once. An emptied cart
// is deleted.
func (s *RedisGuestStore) Update(ctx context.Context, token string, fn func(*cart.GuestCart) error) error {
	key := s.keyPrefix + token

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		c := cart.DecodeGuestCart(data)

		if err := fn(c); err != nil {
			return err
		}
		if c.Len() == 0 {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}
		encoded, err := c.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode guest cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.lifetime)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, cart.ErrUnchanged):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return err
		}
	}
	return fmt.Errorf("guest cart %s changed concurrently %d times", token, maxUpdateAttempts)
}

// Ping reports whether Redis answers. It backs the guest_store health check.
func (s *RedisGuestStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisGuestStore) Close() error {
	return s.client.Close()
}

var _ cart.GuestStore = (*RedisGuestStore)(nil)
