// Package guard turns session and permission state into a single render
// decision for a protected route.
//
// The decision is a four-state machine:
//
//	Booting → {Redirecting, Denied, Rendering}
//
// Booting covers everything before both the session manager and the
// permission resolver have settled, plus a short settle delay after they
// have. The delay exists to suppress a single-frame flash of "denied"
// right after both flip ready: Denied is reachable only once both loads
// are confirmed complete and the delay has elapsed.
//
// Decisions are re-evaluated reactively. Nothing is terminal across
// evaluations: a role upgrade granted out-of-band flips a Denied guard to
// Rendering on the next permission refresh.
//
// Basic usage:
//
//	ev := guard.NewEvaluator(mgr, resolver,
//	    guard.WithModule(grants.ModuleStudents),
//	)
//	defer ev.Close()
//
//	switch ev.Evaluate() {
//	case guard.StateRendering:
//	    // show the protected content
//	case guard.StateRedirecting:
//	    // send the caller to the login entry point
//	}
package guard
