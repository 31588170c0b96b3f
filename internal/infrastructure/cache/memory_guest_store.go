package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marketplace/backend/internal/domain/cart"
)

// memoryEntry is a serialized guest cart with its expiry
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryGuestStore implements cart.GuestStore with an in-process map.
// This is suitable for single-instance deployments and testing.
// Carts are stored serialized, so callers never share a *GuestCart.
type MemoryGuestStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	lifetime  time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryGuestStore creates a new in-memory guest store whose carts expire
// lifetime after their last write. It starts a background goroutine to
// drop expired carts.
func NewMemoryGuestStore(lifetime time.Duration) *MemoryGuestStore {
	s := &MemoryGuestStore{
		entries:  make(map[string]memoryEntry),
		lifetime: lifetime,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Load returns the guest cart; unknown or expired tokens yield an empty cart
func (s *MemoryGuestStore) Load(_ context.Context, token string) (*cart.GuestCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(token), nil
}

// Update applies fn to the current cart and stores the result. The lock is
// held for the whole read-modify-write. An emptied cart is dropped.
func (s *MemoryGuestStore) Update(_ context.Context, token string, fn func(*cart.GuestCart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(token)
	if err := fn(c); err != nil {
		if errors.Is(err, cart.ErrUnchanged) {
			return nil
		}
		return err
	}

	if c.Len() == 0 {
		delete(s.entries, token)
		return nil
	}
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	s.entries[token] = memoryEntry{data: data, expiresAt: time.Now().Add(s.lifetime)}
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (s *MemoryGuestStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored carts (for testing/monitoring)
func (s *MemoryGuestStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryGuestStore) load(token string) *cart.GuestCart {
	e, ok := s.entries[token]
	if !ok || time.Now().After(e.expiresAt) {
		return cart.NewGuestCart()
	}
	return cart.DecodeGuestCart(e.data)
}

// cleanupLoop periodically removes expired carts
func (s *MemoryGuestStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired carts from the store
func (s *MemoryGuestStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}

var _ cart.GuestStore = (*MemoryGuestStore)(nil)
