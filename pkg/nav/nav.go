package nav

import (
	"context"
	"sync"

	"github.com/casekit/casekit/pkg/access"
	"github.com/casekit/casekit/pkg/grants"
)

// Route describes one navigable screen of the application.
type Route struct {
	Path   string        `yaml:"path"`
	Module grants.Module `yaml:"module"`
	Name   string        `yaml:"name"`
}

// DefaultFallbackPath is where users with no accessible routes land.
const DefaultFallbackPath = "/login"

// DefaultRoutes is the application's static route table, in display order.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/students", Module: grants.ModuleStudents, Name: "Students"},
		{Path: "/inventory", Module: grants.ModuleInventory, Name: "Inventory"},
		{Path: "/purchases", Module: grants.ModulePurchases, Name: "Purchases"},
		{Path: "/medications", Module: grants.ModuleMedications, Name: "Medications"},
		{Path: "/appointments", Module: grants.ModuleAppointments, Name: "Appointments"},
		{Path: "/notifications", Module: grants.ModuleNotifications, Name: "Notifications"},
		{Path: "/reports", Module: grants.ModuleReports, Name: "Reports"},
		{Path: "/settings", Module: grants.ModuleSettings, Name: "Settings"},
	}
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithFallbackPath overrides the landing path used when a role can reach
// no route at all.
func WithFallbackPath(path string) Option {
	return func(n *Navigator) {
		if path != "" {
			n.fallbackPath = path
		}
	}
}

// Navigator filters the static route table by coarse module access.
type Navigator struct {
	routes       []Route
	cache        access.ModuleAccess
	fallbackPath string

	mu      sync.Mutex
	noticed map[string]struct{}
}

// NewNavigator creates a navigator over the route table and module-access
// projection.
func NewNavigator(routes []Route, cache access.ModuleAccess, opts ...Option) *Navigator {
	n := &Navigator{
		routes:       routes,
		cache:        cache,
		fallbackPath: DefaultFallbackPath,
		noticed:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AccessibleRoutes returns the routes whose module the role can reach,
// preserving table order.
func (n *Navigator) AccessibleRoutes(ctx context.Context, role grants.Role) []Route {
	var out []Route
	for _, r := range n.routes {
		if n.cache.Resolve(ctx, role, r.Module) {
			out = append(out, r)
		}
	}
	return out
}

// DefaultRoute returns the first accessible route path, or the fallback
// path when the accessible set is empty.
func (n *Navigator) DefaultRoute(ctx context.Context, role grants.Role) string {
	routes := n.AccessibleRoutes(ctx, role)
	if len(routes) == 0 {
		return n.fallbackPath
	}
	return routes[0].Path
}

// NavigateToAccessible resolves where a bounced user should land. When the
// attempted path is not the default, notice is true exactly once per
// attempted path, so the caller can surface a single "access denied,
// redirected" message instead of a repeated one.
func (n *Navigator) NavigateToAccessible(ctx context.Context, role grants.Role, attemptedPath string) (target string, notice bool) {
	target = n.DefaultRoute(ctx, role)
	if attemptedPath == target {
		return target, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, seen := n.noticed[attemptedPath]; seen {
		return target, false
	}
	n.noticed[attemptedPath] = struct{}{}
	return target, true
}
