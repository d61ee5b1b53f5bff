// Package access answers "may this role use this module or action"
// questions for the case-management application.
//
// Two layers with deliberately different failure behavior exist:
//
//   - Resolver holds the active grant set for the current role and answers
//     fine-grained HasPermission(module, action) and coarse
//     CanAccess(module) checks. It fails closed: no role, a fetch error or
//     an unsettled session all answer false.
//   - ModuleCache is a time-bounded projection of the whole grid to
//     "role → reachable modules", used for navigation only. It is never
//     the source of truth for action-level checks, and on backend failure
//     it answers from a conservative built-in table rather than denying
//     everything, so a transient outage does not brick navigation.
//
// CanAccess is strictly coarser than HasPermission: whenever
// HasPermission(m, a) is true for any action a, CanAccess(m) is true.
//
// Basic usage:
//
//	resolver := access.NewResolver(mgr, store)
//	defer resolver.Close()
//
//	if resolver.Loading() {
//	    // do not branch on permissions yet
//	}
//	if resolver.HasPermission(grants.ModuleStudents, grants.ActionUpdate) {
//	    // allowed
//	}
package access
