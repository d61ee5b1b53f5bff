package guard

import (
	"sync"
	"time"

	"github.com/casekit/casekit/pkg/access"
	"github.com/casekit/casekit/pkg/grants"
	"github.com/casekit/casekit/pkg/session"
)

// State is the render decision for a guarded route.
type State int

const (
	// StateBooting means session or permission state is still settling;
	// render a loading placeholder, side-effect free.
	StateBooting State = iota

	// StateRedirecting means no authenticated user exists; send the
	// caller to the login entry point.
	StateRedirecting

	// StateDenied means the user is authenticated but lacks access to the
	// guarded module; render a fallback, do not redirect.
	StateDenied

	// StateRendering means every check passed; render the content.
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateRedirecting:
		return "redirecting"
	case StateDenied:
		return "denied"
	case StateRendering:
		return "rendering"
	}
	return "unknown"
}

// DefaultSettleDelay suppresses the denied flash right after both the
// session and permission loads flip ready.
const DefaultSettleDelay = 150 * time.Millisecond

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithModule constrains the guard to users who can reach the module.
// Without a module constraint the route is open to any authenticated user.
func WithModule(m grants.Module) Option {
	return func(e *Evaluator) {
		e.module = m
		e.hasModule = true
	}
}

// WithAction upgrades the module constraint to the stricter
// action-level check.
func WithAction(a grants.Action) Option {
	return func(e *Evaluator) {
		e.action = a
		e.hasAction = true
	}
}

// WithAllowGuests skips the Redirecting transition: content renders even
// with no authenticated user.
func WithAllowGuests() Option {
	return func(e *Evaluator) { e.allowGuests = true }
}

// WithSettleDelay overrides the post-ready settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Evaluator) {
		if d >= 0 {
			e.settle = d
		}
	}
}

// WithClock injects a clock, letting tests control the settle window.
func WithClock(clock func() time.Time) Option {
	return func(e *Evaluator) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// Evaluator composes session and permission state into a render decision.
// It is safe for concurrent use.
type Evaluator struct {
	sessions *session.Manager
	perms    *access.Resolver

	module      grants.Module
	hasModule   bool
	action      grants.Action
	hasAction   bool
	allowGuests bool
	settle      time.Duration
	clock       func() time.Time

	mu        sync.Mutex
	readyAt   time.Time
	last      State
	hasLast   bool
	listeners map[int]func(State)
	nextID    int
	timer     *time.Timer

	unsubs    []func()
	closeOnce sync.Once
}

// NewEvaluator creates a guard over the session manager and permission
// resolver. Call Close to remove its subscriptions.
func NewEvaluator(mgr *session.Manager, perms *access.Resolver, opts ...Option) *Evaluator {
	e := &Evaluator{
		sessions:  mgr,
		perms:     perms,
		settle:    DefaultSettleDelay,
		clock:     time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.unsubs = append(e.unsubs,
		mgr.Subscribe(func(session.State) { e.reevaluate() }),
		perms.Subscribe(e.reevaluate),
	)

	return e
}

// Evaluate computes the current render decision. It is a pure read of the
// composed state; nothing is cached across evaluations except the settle
// window anchor.
func (e *Evaluator) Evaluate() State {
	st := e.sessions.Snapshot()

	if !st.Initialized || e.perms.Loading() {
		// Not settled; restart the settle window when ready again.
		e.mu.Lock()
		e.readyAt = time.Time{}
		e.mu.Unlock()
		return StateBooting
	}

	now := e.clock()
	e.mu.Lock()
	if e.readyAt.IsZero() {
		e.readyAt = now
		e.armSettleTimer()
	}
	settled := now.Sub(e.readyAt) >= e.settle
	e.mu.Unlock()

	if !settled {
		return StateBooting
	}

	if st.User == nil {
		if e.allowGuests {
			return StateRendering
		}
		return StateRedirecting
	}

	if e.hasModule {
		allowed := false
		if e.hasAction {
			allowed = e.perms.HasPermission(e.module, e.action)
		} else {
			allowed = e.perms.CanAccess(e.module)
		}
		if !allowed {
			return StateDenied
		}
	}

	return StateRendering
}

// Subscribe registers fn to run whenever the decision changes, and returns
// an unsubscribe function. fn also fires once the settle delay elapses.
func (e *Evaluator) Subscribe(fn func(State)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// reevaluate recomputes the decision and notifies listeners on change.
func (e *Evaluator) reevaluate() {
	state := e.Evaluate()

	e.mu.Lock()
	if e.hasLast && state == e.last {
		e.mu.Unlock()
		return
	}
	e.last = state
	e.hasLast = true
	fns := make([]func(State), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// armSettleTimer must be called with e.mu held. It schedules one
// re-evaluation for when the settle window closes, so subscribers leave
// Booting without another external state change.
func (e *Evaluator) armSettleTimer() {
	if e.settle == 0 {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.settle, e.reevaluate)
}

// Close removes the session and permission subscriptions.
func (e *Evaluator) Close() error {
	e.closeOnce.Do(func() {
		for _, unsub := range e.unsubs {
			unsub()
		}
		e.mu.Lock()
		if e.timer != nil {
			e.timer.Stop()
		}
		e.mu.Unlock()
	})
	return nil
}
