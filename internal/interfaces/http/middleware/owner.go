package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Context keys set by CartOwner
const (
	OwnerKey      = "cart_owner"
	GuestTokenKey = "guest_token"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// CookieCartToken stands in for the guest token when only the cart items
	// cookie is present. The cookie guest store ignores tokens.
	CookieCartToken = "cookie"
)

// OwnerConfig holds configuration for the CartOwner middleware
type OwnerConfig struct {
	JWTService *auth.JWTService
	// TokenCookie names the cookie holding the guest token
	TokenCookie string
	// ItemsCookie names the cookie holding a cookie-backed guest cart
	ItemsCookie string
	// Lifetime of the guest token cookie
	Lifetime time.Duration
	Cookie   config.CookieConfig
}

// CartOwner resolves who the cart belongs to. A valid bearer token yields
// the user owner. Without one the guest token cookie yields a guest owner,
// and a fresh token is issued on the first visit. A bearer token that fails
// validation is rejected with 401 rather than downgraded to a guest.
//
// The request context also receives the cookie jar used by the cookie guest
// store and the per-request cart list cache.
func CartOwner(cfg OwnerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		jar := NewGinCookieJar(c, cfg.Cookie)
		ctx := cache.WithCookieJar(c.Request.Context(), jar)
		ctx = cartapp.WithListCache(ctx)

		guestToken, _ := jar.Cookie(cfg.TokenCookie)

		var owner cart.Owner
		if tokenString, ok := bearerToken(c); ok {
			userID, _, err := cfg.JWTService.Validate(tokenString)
			if err != nil {
				logger.L(ctx).Debug("Bearer token rejected", zap.Error(err))
				abortUnauthorized(c, err)
				return
			}
			owner = cart.UserOwner(userID)
			if guestToken == "" && cfg.ItemsCookie != "" {
				if _, ok := jar.Cookie(cfg.ItemsCookie); ok {
					guestToken = CookieCartToken
				}
			}
		} else {
			if guestToken == "" {
				guestToken = uuid.NewString()
				jar.SetCookie(cfg.TokenCookie, guestToken, cfg.Lifetime)
			}
			owner = cart.GuestOwner(guestToken)
		}

		c.Set(OwnerKey, owner)
		c.Set(GuestTokenKey, guestToken)

		ctx = logger.WithOwner(ctx, owner.String())
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			telemetry.SetAttributes(span, telemetry.SpanAttrOwner, ownerKind(owner))
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireUser rejects requests that CartOwner did not authenticate.
// It must run after CartOwner.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetOwner(c).IsUser() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetOwner returns the cart owner resolved for this request
func GetOwner(c *gin.Context) cart.Owner {
	if v, ok := c.Get(OwnerKey); ok {
		if owner, ok := v.(cart.Owner); ok {
			return owner
		}
	}
	return cart.Owner{}
}

// GetGuestToken returns the guest token cookie value, which is kept for
// authenticated requests so their guest cart can be merged. It is
// CookieCartToken when the request carries only the cart items cookie.
func GetGuestToken(c *gin.Context) string {
	return c.GetString(GuestTokenKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeTokenInvalid
	message := "Invalid token"
	if errors.Is(err, auth.ErrExpiredToken) {
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

func ownerKind(owner cart.Owner) string {
	if owner.IsUser() {
		return "user"
	}
	return "guest"
}
