package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
)

const sessionCookie = "spotdash_session"

type contextKey string

const bagContextKey contextKey = "session_bag"

// Registry keeps one [session.Bag] per browser session, keyed by the
// session cookie value. Bags live for the life of the process.
type Registry struct {
	mu   sync.Mutex
	bags map[string]session.Bag
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{bags: make(map[string]session.Bag)}
}

// Get returns the bag for the given session id, creating one when absent.
func (reg *Registry) Get(id string) session.Bag {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	bag, ok := reg.bags[id]
	if !ok {
		bag = make(session.Bag)
		reg.bags[id] = bag
	}
	return bag
}

// Clear drops the bag for the given session id.
func (reg *Registry) Clear(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.bags, id)
}

// Len reports the number of live sessions.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.bags)
}

// SessionMiddleware resolves the request's session bag from the cookie,
// issuing a new cookie when the request carries none, and stores the bag
// on the request context for handlers to pick up with [BagFromContext].
func SessionMiddleware(reg *Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
				id = c.Value
			} else {
				id = shared.GenerateID()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			bag := reg.Get(id)
			ctx := context.WithValue(r.Context(), bagContextKey, bag)
			ctx = context.WithValue(ctx, sessionIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

const sessionIDContextKey contextKey = "session_id"

// BagFromContext returns the session bag stored by [SessionMiddleware],
// or nil when the middleware did not run.
func BagFromContext(ctx context.Context) session.Bag {
	bag, _ := ctx.Value(bagContextKey).(session.Bag)
	return bag
}

// SessionIDFromContext returns the cookie session id, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDContextKey).(string)
	return id
}

// LoggingMiddleware logs each request's method, path, status and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
