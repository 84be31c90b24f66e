package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"microblog/internal/metrics"
)

const (
	pagePrefix      = "page:"
	htmlContentType = "text/html; charset=utf-8"
)

// PageCache stores whole rendered pages in Redis for a fixed TTL.
// Entries are never invalidated by writes; they expire or are removed by Clear.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPageCache returns a cache backed by client. A nil client yields a cache
// that stores nothing.
func NewPageCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PageCache {
	return &PageCache{client: client, ttl: ttl, logger: logger}
}

func (c *PageCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}

	body, err := c.client.Get(ctx, pagePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из кэша: %w", err)
	}

	return body, true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, body []byte) error {
	if !c.Enabled() {
		return nil
	}

	if err := c.client.Set(ctx, pagePrefix+key, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи в кэш: %w", err)
	}
	return nil
}

// Clear removes every cached page and returns how many entries were dropped.
func (c *PageCache) Clear(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pagePrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("ошибка сканирования кэша: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("ошибка очистки кэша: %w", err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

// Middleware serves GET requests from the cache, keyed by keyFn, and stores
// successful responses of the wrapped handler.
func (c *PageCache) Middleware(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !c.Enabled() || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFn(r)
			ctx := r.Context()

			body, ok, err := c.Get(ctx, key)
			if err != nil {
				c.logger.Warn("кэш страниц недоступен", slog.Any("error", err))
			}
			if ok {
				metrics.PageCacheHits.Inc()
				w.Header().Set("Content-Type", htmlContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			metrics.PageCacheMisses.Inc()
			w.Header().Set("X-Cache", "MISS")
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				if err := c.Set(ctx, key, rec.buf.Bytes()); err != nil {
					c.logger.Warn("не удалось сохранить страницу в кэш", slog.Any("error", err))
				}
			}
		})
	}
}

type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}
