// Package session owns the authenticated-identity lifecycle for the
// application: it bootstraps a session from the auth provider, loads the
// caller's profile, and tracks both across auth-state transitions.
//
// The package deliberately treats the session as opaque proof of
// authentication. Credential storage, token issuance and refresh belong to
// the auth provider; this package only observes "present", "absent" and
// "changed".
//
// Lifecycle rules:
//
//   - Initialize performs the one-time bootstrap. A present session loads
//     the profile before initialization completes; errors are logged and
//     swallowed so the application never ends up in a terminal
//     "can never log in" state.
//   - Auth-change notifications are consumed for the lifetime of the
//     manager. A cleared session wipes local state synchronously inside
//     the callback; an established session hands the profile refetch to a
//     dedicated worker goroutine so the fetch never runs reentrantly
//     inside the provider's notification path.
//   - SignOut clears local state before the provider call resolves, so no
//     observer can read a stale authenticated profile afterwards.
//   - A failed profile fetch leaves the profile nil, which downstream
//     access checks treat as "no role": fail closed, never open.
//
// Basic usage:
//
//	mgr := session.NewManager(provider, profiles)
//	defer mgr.Close()
//	mgr.Initialize(ctx)
//
//	st := mgr.Snapshot()
//	if st.Initialized && st.User != nil {
//	    // authenticated
//	}
package session
