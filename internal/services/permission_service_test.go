package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clubhub/clubhub-api/internal/permissions"
)

func TestHasCapability_OwnerBypass(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")

	// The owner role has no grant rows at all; it passes everything anyway.
	for _, key := range []permissions.Capability{
		permissions.CapManageRoles,
		permissions.CapManageMembers,
		permissions.CapDeleteAnnouncements,
	} {
		ok, err := env.perms.HasCapability(owner.ID, club.ID, key)
		require.NoError(t, err)
		require.True(t, ok, "owner should hold %s", key)
	}
}

func TestHasCapability_DefaultDeny(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	member := createTestUser(t, env, "member@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")
	joinClub(t, env, owner.ID, member.ID, club)

	// Baseline grant present.
	ok, err := env.perms.HasCapability(member.ID, club.ID, permissions.CapViewMembers)
	require.NoError(t, err)
	require.True(t, ok)

	// No grant row at all resolves to deny.
	ok, err = env.perms.HasCapability(member.ID, club.ID, permissions.CapManageRoles)
	require.NoError(t, err)
	require.False(t, ok)

	// An explicit false row also denies.
	role := defaultRole(t, env, club.ID)
	require.NoError(t, env.perms.SetPermission(owner.ID, club.ID, role.ID, permissions.CapViewMembers, false))
	ok, err = env.perms.HasCapability(member.ID, club.ID, permissions.CapViewMembers)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasCapability_NonMemberAndUnknownKey(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	outsider := createTestUser(t, env, "outsider@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")

	ok, err := env.perms.HasCapability(outsider.ID, club.ID, permissions.CapViewMembers)
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown keys deny even for the owner.
	ok, err = env.perms.HasCapability(owner.ID, club.ID, permissions.Capability("launch_rockets"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasCapability_RemovedMemberDenied(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	member := createTestUser(t, env, "member@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")
	joinClub(t, env, owner.ID, member.ID, club)

	require.NoError(t, env.memberships.RemoveMember(owner.ID, club.ID, member.ID))

	ok, err := env.perms.HasCapability(member.ID, club.ID, permissions.CapViewMembers)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetPermission_RequiresManageRoles(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	member := createTestUser(t, env, "member@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")
	joinClub(t, env, owner.ID, member.ID, club)
	role := defaultRole(t, env, club.ID)

	err := env.perms.SetPermission(member.ID, club.ID, role.ID, permissions.CapViewEvents, true)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSetPermission_Validation(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")
	otherClub := createTestClub(t, env, owner.ID, "Debate Club")
	role := defaultRole(t, env, club.ID)
	foreignRole := defaultRole(t, env, otherClub.ID)

	err := env.perms.SetPermission(owner.ID, club.ID, role.ID, "launch_rockets", true)
	require.ErrorIs(t, err, ErrUnknownCapability)

	err = env.perms.SetPermission(owner.ID, club.ID, foreignRole.ID, permissions.CapViewEvents, true)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetPermission_OwnerRoleImmutable(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")

	ownerRoles, err := env.roles.ListRoles(owner.ID, club.ID)
	require.NoError(t, err)
	require.True(t, ownerRoles[0].IsOwner())

	err = env.perms.SetPermission(owner.ID, club.ID, ownerRoles[0].ID, permissions.CapViewEvents, false)
	require.ErrorIs(t, err, ErrOwnerRoleImmutable)
}

func TestSetPermission_UpsertIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env, "owner@example.com")
	member := createTestUser(t, env, "member@example.com")
	club := createTestClub(t, env, owner.ID, "Chess Club")
	joinClub(t, env, owner.ID, member.ID, club)
	role := defaultRole(t, env, club.ID)

	require.NoError(t, env.perms.SetPermission(owner.ID, club.ID, role.ID, permissions.CapCreateEvents, true))
	require.NoError(t, env.perms.SetPermission(owner.ID, club.ID, role.ID, permissions.CapCreateEvents, true))

	ok, err := env.perms.HasCapability(member.ID, club.ID, permissions.CapCreateEvents)
	require.NoError(t, err)
	require.True(t, ok)

	// Flip it back off.
	require.NoError(t, env.perms.SetPermission(owner.ID, club.ID, role.ID, permissions.CapCreateEvents, false))
	ok, err = env.perms.HasCapability(member.ID, club.ID, permissions.CapCreateEvents)
	require.NoError(t, err)
	require.False(t, ok)
}
