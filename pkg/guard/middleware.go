package guard

import (
	"context"
	"net/http"
)

// DefaultLoginPath is where unauthenticated callers are redirected.
const DefaultLoginPath = "/login"

// MiddlewareOption configures the HTTP rendition of a guard.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	loginPath string
	denied    http.Handler
}

// WithLoginPath overrides the redirect target for unauthenticated callers.
func WithLoginPath(path string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithDeniedHandler replaces the default "access denied" response.
func WithDeniedHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.denied = h
		}
	}
}

// WaitReady blocks until the decision leaves Booting or the context ends.
// An HTTP caller can afford to wait instead of painting a loading state.
func (e *Evaluator) WaitReady(ctx context.Context) (State, error) {
	if s := e.Evaluate(); s != StateBooting {
		return s, nil
	}

	ch := make(chan State, 1)
	unsub := e.Subscribe(func(s State) {
		if s != StateBooting {
			select {
			case ch <- s:
			default:
			}
		}
	})
	defer unsub()

	// The decision may have settled between the first check and the
	// subscription taking effect.
	if s := e.Evaluate(); s != StateBooting {
		return s, nil
	}

	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return StateBooting, ctx.Err()
	}
}

// Middleware adapts the guard to net/http: Redirecting becomes a 302 to
// the login path, Denied a 403 from the fallback handler, Rendering passes
// the request on. Booting blocks until the decision settles, so a hung
// backend holds the request until the client's context ends.
func (e *Evaluator) Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		loginPath: DefaultLoginPath,
		denied: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "You do not have access to this section", http.StatusForbidden)
		}),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := e.WaitReady(r.Context())
			if err != nil {
				http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
				return
			}

			switch state {
			case StateRedirecting:
				http.Redirect(w, r, cfg.loginPath, http.StatusFound)
			case StateDenied:
				cfg.denied.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
