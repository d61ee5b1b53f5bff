package access_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/casekit/pkg/access"
	"github.com/casekit/casekit/pkg/grants"
)

// recordingCache records Invalidate calls.
type recordingCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *recordingCache) Resolve(ctx context.Context, role grants.Role, module grants.Module) bool {
	return false
}

func (c *recordingCache) Modules(ctx context.Context, role grants.Role) []grants.Module {
	return nil
}

func (c *recordingCache) Invalidate() {
	c.mu.Lock()
	c.invalidated++
	c.mu.Unlock()
}

func (c *recordingCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

func TestEditor_ApplyInvalidatesOnSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore()
	cache := &recordingCache{}
	editor := access.NewEditor(store, cache)

	err := editor.Apply(ctx, []grants.Update{
		{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Allowed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.count())

	rows, err := store.ListGrants(ctx, grants.RoleAssistant)
	require.NoError(t, err)
	assert.Len(t, rows, len(grants.Actions()))
}

func TestEditor_ApplyDoesNotInvalidateOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	partial := &grants.PartialUpdateError{Failed: 1, Total: 4}
	cache := &recordingCache{}
	editor := access.NewEditor(&failingStore{err: partial}, cache)

	err := editor.Apply(ctx, []grants.Update{
		{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Allowed: true},
	})

	var pErr *grants.PartialUpdateError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, 1, pErr.Failed)
	assert.Equal(t, 0, cache.count(), "cache is invalidated only on full success")
}
