package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-listing/internal/config"
)

// bodyCapture duplicates the response body into a buffer while forwarding
// it to the client, up to a configured limit.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	total  int
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.total += len(b)
	if w.limit <= 0 || w.total <= w.limit {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// cacheable reports whether the full body was captured.  Oversized bodies
// must not be stored, a truncated entry would be replayed as a HIT.
func (w *bodyCapture) cacheable() bool {
	return w.limit <= 0 || w.total <= w.limit
}

// NewResponseCache caches successful JSON responses of the configured
// methods in Redis.  Entries are keyed by route and query string so paged
// catalog requests cache per page.  With caching disabled or no Redis
// client available the middleware is a no-op.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if payload, err := rdb.Get(ctx, key).Bytes(); err == nil && len(payload) > 4 {
				status := int(binary.BigEndian.Uint32(payload[:4]))
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(status)
				_, _ = c.Response().Write(payload[4:])
				return nil
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.cacheable() {
				body := cw.buf.Bytes()
				payload := make([]byte, 4+len(body))
				binary.BigEndian.PutUint32(payload[:4], uint32(cw.status))
				copy(payload[4:], body)
				// Detached context: the response is already on its way out.
				_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err()
			}
			return nil
		}
	}
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
