package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/casekit/casekit/pkg/grants"
	"github.com/casekit/casekit/pkg/logger"
)

// State is a point-in-time view of the identity lifecycle.
//
// Profile and permissions derived from it are undefined until Initialized
// is true. Loading is true while the current profile fetch is in flight;
// consumers must not branch on identity while it is set.
type State struct {
	User        *User
	Session     *Session
	Profile     *Profile
	Loading     bool
	Initialized bool
}

// Role returns the profile role, or false when no profile is loaded.
func (s State) Role() (grants.Role, bool) {
	if s.Profile == nil {
		return "", false
	}
	return s.Profile.Role, true
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

type refetchRequest struct {
	userID uuid.UUID
	gen    uint64
}

// Manager establishes and tracks exactly one authenticated identity at a
// time. It is safe for concurrent use.
type Manager struct {
	provider AuthProvider
	profiles ProfileStore
	log      *slog.Logger

	mu    sync.RWMutex
	state State
	// gen guards superseded profile fetches: a fetch result is applied
	// only if no newer auth transition happened since it was queued.
	gen uint64

	listeners map[int]func(State)
	nextID    int

	refetch    chan refetchRequest
	done       chan struct{}
	stopChange func()
	initOnce   sync.Once
	closeOnce  sync.Once
}

// NewManager creates a manager bound to the auth provider and profile
// store. It registers the auth-change subscription and starts the profile
// refetch worker immediately; call Close to tear both down.
func NewManager(provider AuthProvider, profiles ProfileStore, opts ...Option) *Manager {
	m := &Manager{
		provider:  provider,
		profiles:  profiles,
		log:       slog.Default(),
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
		refetch:   make(chan refetchRequest, 16),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	go m.refetchWorker()
	m.stopChange = provider.OnChange(m.handleChange)

	return m
}

// Initialize performs the one-time session bootstrap. A present session
// loads the profile before initialization completes; any error is logged
// and treated as "no session" so the bootstrap always finishes and
// Initialized latches to true. Subsequent calls are no-ops.
func (m *Manager) Initialize(ctx context.Context) {
	m.initOnce.Do(func() { m.bootstrap(ctx) })
}

func (m *Manager) bootstrap(ctx context.Context) {
	sess, err := m.provider.CurrentSession(ctx)
	if err != nil {
		m.log.ErrorContext(ctx, "session bootstrap failed",
			logger.Component("session.Manager"), logger.Error(err))
		sess = nil
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.state.Session = sess
	if sess != nil {
		m.state.User = sess.User
	}
	user := m.state.User
	m.mu.Unlock()

	var profile *Profile
	if user != nil {
		profile, err = m.profiles.GetProfile(ctx, user.ID)
		if err != nil {
			m.log.ErrorContext(ctx, "profile load failed during bootstrap",
				logger.Component("session.Manager"),
				logger.UserID(user.ID), logger.Error(err))
			profile = nil
		}
	}

	m.mu.Lock()
	if m.gen == gen {
		m.state.Profile = profile
		m.state.Loading = false
	}
	m.state.Initialized = true
	m.mu.Unlock()

	m.notify()
}

// handleChange consumes auth-state transitions from the provider. A cleared
// session wipes local state synchronously; an established session defers
// the profile fetch to the worker goroutine so the fetch never runs inside
// the provider's notification path.
func (m *Manager) handleChange(event ChangeEvent, sess *Session) {
	switch event {
	case SessionCleared:
		m.mu.Lock()
		m.gen++
		m.state.User = nil
		m.state.Session = nil
		m.state.Profile = nil
		m.state.Loading = false
		m.mu.Unlock()
		m.notify()

	case SessionEstablished:
		m.mu.Lock()
		m.gen++
		gen := m.gen
		m.state.Session = sess
		var user *User
		if sess != nil {
			user = sess.User
		}
		m.state.User = user
		if user == nil {
			m.state.Profile = nil
			m.state.Loading = false
			m.mu.Unlock()
			m.notify()
			return
		}
		m.state.Loading = true
		m.mu.Unlock()
		m.notify()

		select {
		case m.refetch <- refetchRequest{userID: user.ID, gen: gen}:
		default:
			m.log.Warn("profile refetch queue full, dropping request",
				logger.Component("session.Manager"), logger.UserID(user.ID))
		}
	}
}

// refetchWorker is the single writer for deferred profile loads.
func (m *Manager) refetchWorker() {
	for {
		select {
		case req := <-m.refetch:
			m.loadProfile(req)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) loadProfile(req refetchRequest) {
	// No cancellation: a superseded fetch completes and its result is
	// discarded by the generation check below.
	profile, err := m.profiles.GetProfile(context.Background(), req.userID)
	if err != nil {
		m.log.Error("profile fetch failed",
			logger.Component("session.Manager"),
			logger.UserID(req.userID), logger.Error(err))
		profile = nil
	}

	m.mu.Lock()
	if m.gen != req.gen {
		m.mu.Unlock()
		return
	}
	m.state.Profile = profile
	m.state.Loading = false
	m.mu.Unlock()

	m.notify()
}

// SignIn authenticates with the provider. State updates arrive through the
// provider's change notification, not the return value.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return m.provider.SignIn(ctx, email, password)
}

// SignUp registers a new account with the provider.
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	return m.provider.SignUp(ctx, email, password, fullName)
}

// SignOut clears local identity state synchronously before the provider
// call resolves, so no observer can read a stale authenticated profile
// once SignOut has been requested.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	m.state.User = nil
	m.state.Session = nil
	m.state.Profile = nil
	m.state.Loading = false
	m.mu.Unlock()
	m.notify()

	return m.provider.SignOut(ctx)
}

// Snapshot returns the current lifecycle state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function. Notifications are synchronous; fn must be cheap.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	state := m.state
	fns := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Close removes the auth-change subscription and stops the refetch worker.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		if m.stopChange != nil {
			m.stopChange()
		}
		close(m.done)
	})
	return nil
}
