package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// GinCookieJar adapts a gin request/response pair to cache.CookieJar.
// Cookies written during the request are visible to later reads of the
// same request, so a cart updated twice in one handler sees its own writes.
type GinCookieJar struct {
	c       *gin.Context
	cfg     config.CookieConfig
	mu      sync.Mutex
	written map[string]string
}

var _ cache.CookieJar = (*GinCookieJar)(nil)

// NewGinCookieJar creates a cookie jar bound to c
func NewGinCookieJar(c *gin.Context, cfg config.CookieConfig) *GinCookieJar {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &GinCookieJar{c: c, cfg: cfg, written: make(map[string]string)}
}

// Cookie returns the value written earlier in this request, or the request cookie
func (j *GinCookieJar) Cookie(name string) (string, bool) {
	j.mu.Lock()
	v, ok := j.written[name]
	j.mu.Unlock()
	if ok {
		return v, v != ""
	}

	v, err := j.c.Cookie(name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// SetCookie writes an HttpOnly cookie. A negative maxAge deletes it.
func (j *GinCookieJar) SetCookie(name, value string, maxAge time.Duration) {
	seconds := int(maxAge / time.Second)
	if maxAge < 0 {
		seconds = -1
		value = ""
	}

	j.mu.Lock()
	j.written[name] = value
	j.mu.Unlock()

	j.c.SetSameSite(sameSite(j.cfg.SameSite))
	j.c.SetCookie(name, value, seconds, j.cfg.Path, j.cfg.Domain, j.cfg.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
