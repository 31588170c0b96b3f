package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/cart"
)

// maxCookieBytes is the largest cookie value browsers are required to keep
const maxCookieBytes = 4096

var (
	// ErrNoCookieJar is returned when the context carries no request cookie jar
	ErrNoCookieJar = errors.New("cache: no cookie jar in context")
	// ErrCookieTooLarge is returned when the encoded cart does not fit in a cookie
	ErrCookieTooLarge = errors.New("cache: guest cart exceeds cookie size limit")
)

// CookieJar reads and writes cookies of the current HTTP request.
// Values written with SetCookie are visible to later Cookie calls of the same request.
type CookieJar interface {
	Cookie(name string) (string, bool)
	SetCookie(name, value string, maxAge time.Duration)
}

type cookieJarKey struct{}

// WithCookieJar attaches the request's cookie jar to ctx
func WithCookieJar(ctx context.Context, jar CookieJar) context.Context {
	return context.WithValue(ctx, cookieJarKey{}, jar)
}

// CookieJarFrom returns the cookie jar attached to ctx
func CookieJarFrom(ctx context.Context) (CookieJar, bool) {
	jar, ok := ctx.Value(cookieJarKey{}).(CookieJar)
	return jar, ok && jar != nil
}

// CookieGuestStore implements cart.GuestStore on a browser cookie. The
// whole cart travels in one cookie, so the token is ignored: the jar in the
// context already belongs to exactly one guest.
type CookieGuestStore struct {
	name     string
	lifetime time.Duration
}

// NewCookieGuestStore creates a store writing the cart into cookie name
func NewCookieGuestStore(name string, lifetime time.Duration) *CookieGuestStore {
	return &CookieGuestStore{name: name, lifetime: lifetime}
}

// Load decodes the cart cookie; a missing or malformed cookie yields an empty cart
func (s *CookieGuestStore) Load(ctx context.Context, _ string) (*cart.GuestCart, error) {
	jar, ok := CookieJarFrom(ctx)
	if !ok {
		return nil, ErrNoCookieJar
	}
	value, ok := jar.Cookie(s.name)
	if !ok {
		return cart.NewGuestCart(), nil
	}
	return cart.DecodeGuestCart([]byte(value)), nil
}

// Update applies fn and writes the cart back into the response cookie.
// An emptied cart expires the cookie.
func (s *CookieGuestStore) Update(ctx context.Context, token string, fn func(*cart.GuestCart) error) error {
	jar, ok := CookieJarFrom(ctx)
	if !ok {
		return ErrNoCookieJar
	}
	c, err := s.Load(ctx, token)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		if errors.Is(err, cart.ErrUnchanged) {
			return nil
		}
		return err
	}

	if c.Len() == 0 {
		jar.SetCookie(s.name, "", -1)
		return nil
	}
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if len(data) > maxCookieBytes {
		return ErrCookieTooLarge
	}
	jar.SetCookie(s.name, string(data), s.lifetime)
	return nil
}

var _ cart.GuestStore = (*CookieGuestStore)(nil)
