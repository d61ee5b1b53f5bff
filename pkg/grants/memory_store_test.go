package grants_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/casekit/pkg/grants"
)

func TestMemoryStore_ListGrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore(
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleInventory, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleDirector, Module: grants.ModuleReports, Action: grants.ActionRead, Allowed: true},
	)

	rows, err := store.ListGrants(ctx, grants.RoleAssistant)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, g := range rows {
		assert.Equal(t, grants.RoleAssistant, g.Role)
	}

	rows, err = store.ListGrants(ctx, grants.RoleSubject)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryStore_ListAllGrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore(
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleDirector, Module: grants.ModuleReports, Action: grants.ActionRead, Allowed: false},
	)

	rows, err := store.ListAllGrants(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore(
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Action: grants.ActionRead, Allowed: true},
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Action: grants.ActionRead, Allowed: false},
	)

	rows, err := store.ListGrants(ctx, grants.RoleAssistant)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Allowed)
}

func TestMemoryStore_OmittedActionDefaultsToRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore(
		grants.Grant{Role: grants.RoleAssistant, Module: grants.ModuleStudents, Allowed: true},
	)

	rows, err := store.ListGrants(ctx, grants.RoleAssistant)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, grants.ActionRead, rows[0].Action)
}

func TestMemoryStore_UpdateGrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := grants.NewMemoryStore()
	err := store.UpdateGrants(ctx, []grants.Update{
		{Role: grants.RoleCoordinator, Module: grants.ModuleMedications, Allowed: true},
	})
	require.NoError(t, err)

	rows, err := store.ListGrants(ctx, grants.RoleCoordinator)
	require.NoError(t, err)
	// A module-level update fans out to every action.
	assert.Len(t, rows, len(grants.Actions()))
	for _, g := range rows {
		assert.Equal(t, grants.ModuleMedications, g.Module)
		assert.True(t, g.Allowed)
	}
}

func TestMemoryStore_UpdateGrants_Empty(t *testing.T) {
	t.Parallel()

	store := grants.NewMemoryStore()
	err := store.UpdateGrants(context.Background(), nil)
	assert.ErrorIs(t, err, grants.ErrEmptyUpdate)
}
