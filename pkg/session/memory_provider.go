package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL bounds sessions issued by the in-memory provider.
const DefaultSessionTTL = 24 * time.Hour

// MemoryAuthProvider is an AuthProvider for tests and local development.
// It stores bcrypt password hashes in memory and delivers change events
// synchronously to registered handlers.
type MemoryAuthProvider struct {
	mu       sync.Mutex
	accounts map[string]memoryAccount
	current  *Session
	handlers map[int]ChangeHandler
	nextID   int
	ttl      time.Duration
}

type memoryAccount struct {
	user User
	hash []byte
}

// NewMemoryAuthProvider creates an empty in-memory auth provider.
func NewMemoryAuthProvider() *MemoryAuthProvider {
	return &MemoryAuthProvider{
		accounts: make(map[string]memoryAccount),
		handlers: make(map[int]ChangeHandler),
		ttl:      DefaultSessionTTL,
	}
}

// CurrentSession returns a copy of the active session, or nil.
func (p *MemoryAuthProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, nil
	}
	sess := *p.current
	return &sess, nil
}

// OnChange registers a handler for auth-state transitions.
func (p *MemoryAuthProvider) OnChange(handler ChangeHandler) (stop func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// SignIn verifies credentials and establishes a session.
func (p *MemoryAuthProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	p.mu.Lock()
	acc, ok := p.accounts[email]
	p.mu.Unlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.establish(acc.user)
}

// SignUp registers an account and establishes a session for it.
func (p *MemoryAuthProvider) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, ErrEmailAlreadyExists
	}
	user := User{ID: uuid.New(), Email: email}
	p.accounts[email] = memoryAccount{user: user, hash: hash}
	p.mu.Unlock()

	return p.establish(user)
}

// SignOut clears the active session and notifies handlers.
func (p *MemoryAuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	for _, h := range handlers {
		h(SessionCleared, nil)
	}
	return nil
}

// ExpireSession drops the session without a sign-out call, simulating
// server-side expiry. Intended for tests.
func (p *MemoryAuthProvider) ExpireSession() {
	p.mu.Lock()
	p.current = nil
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	for _, h := range handlers {
		h(SessionCleared, nil)
	}
}

func (p *MemoryAuthProvider) establish(user User) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	u := user
	sess := &Session{
		Token:     token,
		User:      &u,
		ExpiresAt: time.Now().Add(p.ttl),
	}

	p.mu.Lock()
	p.current = sess
	handlers := p.snapshotHandlers()
	p.mu.Unlock()

	copied := *sess
	for _, h := range handlers {
		h(SessionEstablished, &copied)
	}
	return &copied, nil
}

// snapshotHandlers must be called with p.mu held.
func (p *MemoryAuthProvider) snapshotHandlers() []ChangeHandler {
	out := make([]ChangeHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		out = append(out, h)
	}
	return out
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
