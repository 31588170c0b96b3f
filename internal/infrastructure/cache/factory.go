package cache

import (
	"fmt"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// GuestStoreFactory creates the guest cart store selected by configuration
type GuestStoreFactory struct {
	cartConfig            config.CartConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// GuestStoreFactoryOption is a functional option for configuring the factory
type GuestStoreFactoryOption func(*GuestStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) GuestStoreFactoryOption {
	return func(f *GuestStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether the redis backend falls back to the
// in-memory store when Redis is unavailable. Default is false.
func WithInMemoryFallback(allow bool) GuestStoreFactoryOption {
	return func(f *GuestStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewGuestStoreFactory creates a new factory
func NewGuestStoreFactory(cartCfg config.CartConfig, redisCfg config.RedisConfig, opts ...GuestStoreFactoryOption) *GuestStoreFactory {
	f := &GuestStoreFactory{
		cartConfig:  cartCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates the configured guest store. The returned close
// function releases its resources and is never nil.
func (f *GuestStoreFactory) CreateStore() (cart.GuestStore, func() error, error) {
	switch f.cartConfig.GuestBackend {
	case config.GuestBackendCookie, "":
		f.logger.Info("Using cookie guest cart store", zap.String("cookie", f.cartConfig.ItemsCookie))
		return NewCookieGuestStore(f.cartConfig.ItemsCookie, f.cartConfig.Lifetime), noopClose, nil

	case config.GuestBackendMemory:
		f.logger.Warn("Using in-memory guest cart store; carts are lost on restart and not shared between instances")
		store := NewMemoryGuestStore(f.cartConfig.Lifetime)
		return store, store.Close, nil

	case config.GuestBackendRedis:
		client, err := NewRedisClient(f.redisConfig)
		if err == nil {
			f.logger.Info("Using Redis guest cart store", zap.String("addr", f.redisConfig.Addr()))
			return NewRedisGuestStore(client, f.cartConfig.RedisKeyPrefix, f.cartConfig.Lifetime), client.Close, nil
		}
		if !f.allowInMemoryFallback {
			return nil, nil, fmt.Errorf("Redis required for guest carts but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory guest cart store. "+
			"Guest carts will not be shared between instances.",
			zap.Error(err),
		)
		store := NewMemoryGuestStore(f.cartConfig.Lifetime)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown guest cart backend %q", f.cartConfig.GuestBackend)
	}
}

func noopClose() error { return nil }
