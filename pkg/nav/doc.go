// Package nav computes which of the application's known routes a role can
// reach, and where to land a user who arrived somewhere they cannot.
//
// Reachability uses the coarse module-access projection: navigation only
// needs "can the role ever see this module", never action-level checks.
//
// Basic usage:
//
//	routes, _ := nav.LoadRoutesFile("routes.yaml")
//	navigator := nav.NewNavigator(routes, cache)
//
//	landing := navigator.DefaultRoute(ctx, role)
//	target, notice := navigator.NavigateToAccessible(ctx, role, "/reports")
//	if notice {
//	    // tell the user they were redirected
//	}
package nav
