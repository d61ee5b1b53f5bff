package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/casekit/casekit/pkg/grants"
	"github.com/casekit/casekit/pkg/logger"
	"github.com/casekit/casekit/pkg/session"
)

type permKey struct {
	module grants.Module
	action grants.Action
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets a custom logger for the resolver.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// Resolver computes fine-grained and coarse access answers for the role
// currently held by the session manager.
//
// The resolver never fetches grants while the session manager is still
// settling: asking for a role mid-bootstrap and caching its grants
// prematurely is the one ordering bug this type exists to prevent. Grant
// fetches start only once the manager reports Loading=false.
type Resolver struct {
	store grants.Store
	log   *slog.Logger

	mu             sync.RWMutex
	role           grants.Role
	hasRole        bool
	set            map[permKey]struct{}
	fetching       bool
	sessionLoading bool
	gen            uint64

	listeners map[int]func()
	nextID    int
	unsub     func()
	closeOnce sync.Once
}

// NewResolver creates a resolver driven by the session manager's state.
// Call Close to remove the subscription.
func NewResolver(mgr *session.Manager, store grants.Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:          store,
		log:            slog.Default(),
		sessionLoading: true,
		listeners:      make(map[int]func()),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.unsub = mgr.Subscribe(r.onSessionState)
	r.onSessionState(mgr.Snapshot())

	return r
}

// onSessionState reacts to identity changes. Grant fetches are gated on
// the manager having settled (Initialized and not Loading).
func (r *Resolver) onSessionState(st session.State) {
	role, hasRole := st.Role()
	settling := !st.Initialized || st.Loading

	r.mu.Lock()
	r.sessionLoading = settling

	switch {
	case settling:
		// Keep whatever grant set we have; answers stay gated behind
		// Loading() so callers never observe a transient denial.
		r.mu.Unlock()

	case !hasRole:
		r.role = ""
		r.hasRole = false
		r.set = nil
		r.fetching = false
		r.gen++
		r.mu.Unlock()

	case !r.hasRole || r.role != role || r.set == nil:
		r.role = role
		r.hasRole = true
		r.fetching = true
		r.gen++
		gen := r.gen
		r.mu.Unlock()
		go r.fetch(role, gen)

	default:
		r.mu.Unlock()
	}

	r.notify()
}

func (r *Resolver) fetch(role grants.Role, gen uint64) {
	rows, err := r.store.ListGrants(context.Background(), role)
	if err != nil {
		// Fail closed: an empty grant set denies everything.
		r.log.Error("grant fetch failed",
			logger.Component("access.Resolver"),
			logger.Role(role), logger.Error(err))
		rows = nil
	}

	set := make(map[permKey]struct{}, len(rows))
	for _, g := range rows {
		if g.Allowed {
			set[permKey{module: g.Module, action: g.Action.Normalize()}] = struct{}{}
		}
	}

	r.mu.Lock()
	if r.gen != gen {
		r.mu.Unlock()
		return
	}
	r.set = set
	r.fetching = false
	r.mu.Unlock()

	r.notify()
}

// Refresh refetches grants for the current role, making out-of-band grid
// changes visible without a session transition.
func (r *Resolver) Refresh() {
	r.mu.Lock()
	if !r.hasRole || r.sessionLoading {
		r.mu.Unlock()
		return
	}
	r.fetching = true
	r.gen++
	gen := r.gen
	role := r.role
	r.mu.Unlock()

	go r.fetch(role, gen)
}

// HasPermission reports whether the active grant set allows the action on
// the module. An omitted action defaults to read. Returns false while no
// role is resolved.
func (r *Resolver) HasPermission(module grants.Module, action grants.Action) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.set == nil {
		return false
	}
	_, ok := r.set[permKey{module: module, action: action.Normalize()}]
	return ok
}

// CanAccess reports whether any action on the module is allowed for the
// active role. It is strictly coarser than HasPermission.
func (r *Resolver) CanAccess(module grants.Module) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.set == nil {
		return false
	}
	for _, a := range grants.Actions() {
		if _, ok := r.set[permKey{module: module, action: a}]; ok {
			return true
		}
	}
	return false
}

// Loading is true while either the session manager or the grant fetch is
// in flight. Callers must not branch on permissions while it is true.
func (r *Resolver) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionLoading || r.fetching
}

// Role returns the role the current grant set belongs to.
func (r *Resolver) Role() (grants.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.role, r.hasRole
}

// Subscribe registers fn to run whenever the resolver's answers may have
// changed, and returns an unsubscribe function.
func (r *Resolver) Subscribe(fn func()) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Resolver) notify() {
	r.mu.RLock()
	fns := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Close removes the session subscription.
func (r *Resolver) Close() error {
	r.closeOnce.Do(func() {
		if r.unsub != nil {
			r.unsub()
		}
	})
	return nil
}
