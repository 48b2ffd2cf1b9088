// Package revalidate caches rendered GET responses and drops them when a write makes
// them stale, optionally telling other API instances to do the same.
package revalidate

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Broadcaster fans a revalidated path out to other instances.
type Broadcaster interface {
	Publish(ctx context.Context, path string) error
}

// Subscriber delivers revalidations published by other instances until ctx is done or
// the subscription is lost.
type Subscriber interface {
	Subscribe(ctx context.Context, apply func(ctx context.Context, path string)) error
}

type Revalidator struct {
	cache       *Cache
	broadcaster Broadcaster
}

// New returns a Revalidator over cache. broadcaster may be nil for single-instance setups.
func New(cache *Cache, broadcaster Broadcaster) *Revalidator {
	return &Revalidator{cache: cache, broadcaster: broadcaster}
}

// Revalidate drops cached responses under path locally and broadcasts the path.
// Broadcast failures are logged; the local purge has already happened.
func (r *Revalidator) Revalidate(ctx context.Context, path string) {
	n := r.cache.Purge(path)
	slog.DebugContext(ctx, "revalidated", "path", path, "purged", n)

	if r.broadcaster == nil {
		return
	}

	if err := r.broadcaster.Publish(ctx, path); err != nil {
		slog.WarnContext(ctx, "failed to broadcast revalidation", "path", path, "error", err)
	}
}

// Apply purges a path received from another instance without re-broadcasting it.
func (r *Revalidator) Apply(ctx context.Context, path string) {
	n := r.cache.Purge(path)
	slog.DebugContext(ctx, "applied remote revalidation", "path", path, "purged", n)
}

// Listen keeps sub subscribed until ctx is done. Purges published while the subscription
// was down are lost, so every drop purges the whole cache before resubscribing. The retry
// delay doubles from minDelay up to maxDelay and resets after a subscription that lasted
// longer than maxDelay.
func (r *Revalidator) Listen(ctx context.Context, sub Subscriber, minDelay, maxDelay time.Duration) {
	delay := minDelay

	for {
		started := time.Now()

		err := sub.Subscribe(ctx, r.Apply)
		if ctx.Err() != nil {
			return
		}

		n := r.cache.Purge("/")
		slog.ErrorContext(ctx, "revalidation subscription lost", "error", err, "purged", n, "retry_in", delay)

		if time.Since(started) > maxDelay {
			delay = minDelay
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay = min(delay*2, maxDelay)
	}
}

// StartCleanup periodically drops expired entries until ctx is done.
func (r *Revalidator) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := r.cache.CleanExpired(); n > 0 {
					slog.Debug("cleaned expired responses", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Middleware serves GET requests from the cache and stores successful responses.
// scope identifies whose view a response is (typically the session subject); requests
// with an empty scope bypass the cache.
func (r *Revalidator) Middleware(scope func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s := scope(req)
			if req.Method != http.MethodGet || s == "" {
				next.ServeHTTP(w, req)
				return
			}

			key := Key(s, req.URL.Path, req.URL.RawQuery)

			if entry, ok := r.cache.Get(key); ok {
				for k, v := range entry.Header {
					w.Header()[k] = v
				}

				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(entry.Status)
				_, _ = w.Write(entry.Body)

				return
			}

			gen := r.cache.Generation()

			var buf bytes.Buffer

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			ww.Tee(&buf)
			ww.Header().Set("X-Cache", "MISS")

			next.ServeHTTP(ww, req)

			if ww.Status() != http.StatusOK {
				return
			}

			r.cache.SetIfCurrent(key, Entry{Status: http.StatusOK, Header: replayable(ww.Header()), Body: buf.Bytes()}, gen)
		})
	}
}

// replayedHeaders describe the body itself. Per-request headers such as CORS and Vary
// are left to the middleware that runs on every request.
var replayedHeaders = []string{"Content-Type", "Content-Disposition"}

func replayable(h http.Header) http.Header {
	out := make(http.Header, len(replayedHeaders))

	for _, k := range replayedHeaders {
		if v := h.Values(k); len(v) > 0 {
			out[k] = append([]string(nil), v...)
		}
	}

	return out
}
