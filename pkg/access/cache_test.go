package access_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/casekit/pkg/access"
	"github.com/casekit/casekit/pkg/grants"
)

// fakeClock is a controllable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func fullGrid() *grants.MemoryStore {
	return grants.NewMemoryStore(
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleInventory, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleDirector, Module: grants.ModuleReports, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleDirector, Module: grants.ModuleStudents, Action: grants.ActionUpdate, Allowed: true},
		grants.Grant{Role: grants.RoleSubject, Module: grants.ModuleReports, Action: grants.ActionRead, Allowed: false},
	)
}

func TestModuleCache_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := access.NewModuleCache(fullGrid(), access.WithCacheLogger(discardLogger()))

	assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	assert.True(t, cache.Resolve(ctx, grants.RoleDirector, grants.ModuleStudents))
	assert.False(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleReports))
	assert.False(t, cache.Resolve(ctx, grants.RoleSubject, grants.ModuleReports), "denied rows do not count")
}

func TestModuleCache_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := newFakeClock()
	store := &countingStore{inner: fullGrid()}
	cache := access.NewModuleCache(store,
		access.WithCacheClock(clock.Now),
		access.WithCacheLogger(discardLogger()),
	)

	require.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	require.Equal(t, 1, store.listAllCalls())

	// Within the TTL the cache answers without a grid scan.
	clock.Advance(4 * time.Minute)
	require.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	assert.Equal(t, 1, store.listAllCalls())

	// Past the TTL the next call rebuilds.
	clock.Advance(2 * time.Minute)
	require.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	assert.Equal(t, 2, store.listAllCalls())
}

func TestModuleCache_InvalidateForcesRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &countingStore{inner: fullGrid()}
	cache := access.NewModuleCache(store, access.WithCacheLogger(discardLogger()))

	require.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	require.Equal(t, 1, store.listAllCalls())

	cache.Invalidate()

	require.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	assert.Equal(t, 2, store.listAllCalls(), "invalidate forces a refetch regardless of TTL")
}

func TestModuleCache_OneScanCoversAllRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &countingStore{inner: fullGrid()}
	cache := access.NewModuleCache(store, access.WithCacheLogger(discardLogger()))

	cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents)
	cache.Resolve(ctx, grants.RoleDirector, grants.ModuleReports)
	cache.Resolve(ctx, grants.RoleSubject, grants.ModuleReports)

	assert.Equal(t, 1, store.listAllCalls(), "one full scan serves every role")
}

func TestModuleCache_FallbackOnFetchFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := access.NewModuleCache(&failingStore{err: errors.New("backend down")},
		access.WithCacheLogger(discardLogger()))

	// Coarse layer fails open into the conservative table so navigation
	// survives a backend outage.
	assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
	assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleInventory))
	assert.False(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleSettings))
	assert.False(t, cache.Resolve(ctx, grants.RoleSubject, grants.ModuleStudents))
}

func TestModuleCache_FallbackDoesNotPoisonCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	flaky := &flakyStore{inner: fullGrid(), failures: 1}
	cache := access.NewModuleCache(flaky, access.WithCacheLogger(discardLogger()))

	// First call fails and answers from the fallback table.
	assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))

	// Recovery: the next call refetches the real grid.
	assert.False(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleSettings))
	assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleInventory))
}

func TestModuleCache_Modules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := access.NewModuleCache(fullGrid(), access.WithCacheLogger(discardLogger()))

	mods := cache.Modules(ctx, grants.RoleAssistant)
	assert.Equal(t, []grants.Module{grants.ModuleInventory, grants.ModuleStudents}, mods)

	assert.Empty(t, cache.Modules(ctx, grants.RoleCoordinator))
}

func TestModuleCache_ConcurrentResolves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := access.NewModuleCache(fullGrid(), access.WithCacheLogger(discardLogger()))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleStudents))
			assert.False(t, cache.Resolve(ctx, grants.RoleAssistant, grants.ModuleReports))
		}()
	}
	wg.Wait()
}

// flakyStore fails its first n reads and then delegates.
type flakyStore struct {
	inner grants.Store

	mu       sync.Mutex
	failures int
}

func (s *flakyStore) ListGrants(ctx context.Context, role grants.Role) ([]grants.Grant, error) {
	if s.fail() {
		return nil, errors.New("transient failure")
	}
	return s.inner.ListGrants(ctx, role)
}

func (s *flakyStore) ListAllGrants(ctx context.Context) ([]grants.Grant, error) {
	if s.fail() {
		return nil, errors.New("transient failure")
	}
	return s.inner.ListAllGrants(ctx)
}

func (s *flakyStore) UpdateGrants(ctx context.Context, updates []grants.Update) error {
	return s.inner.UpdateGrants(ctx, updates)
}

func (s *flakyStore) fail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return true
	}
	return false
}
