package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/events"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

func newModerationFixture() (*Moderation, *fakeGateway) {
	gw := newFakeGateway()
	mod := NewModeration(testRoleConfig(), gw, events.NewInMemoryDispatcher(), zap.NewNop())
	return mod, gw
}

func heldRoles(gw *fakeGateway, userID string) []string {
	roles, _ := gw.MemberRoles(context.Background(), userID)
	return roles
}

func TestPromoteUnrankedBecomesMember(t *testing.T) {
	mod, gw := newModerationFixture()

	newKey, err := mod.Promote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, newKey)
	assert.ElementsMatch(t, []string{"role-member"}, heldRoles(gw, "target-1"))
}

func TestPromoteMemberToModKeepsMemberGrantsStaff(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-member"}

	newKey, err := mod.Promote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMod, newKey)
	assert.ElementsMatch(t, []string{"role-member", "role-mod", "role-staff"}, heldRoles(gw, "target-1"))
}

func TestPromoteSwapsHigherRanks(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-mod", "role-staff"}

	newKey, err := mod.Promote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSrMod, newKey)
	assert.ElementsMatch(t, []string{"role-sr-mod", "role-staff"}, heldRoles(gw, "target-1"))
}

func TestPromoteAtHighestRank(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-owner"}

	_, err := mod.Promote(context.Background(), "manager-1", "target-1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "AT_HIGHEST_RANK"))
	assert.ElementsMatch(t, []string{"role-owner"}, heldRoles(gw, "target-1"))
}

func TestPromoteUsesHighestHeldRank(t *testing.T) {
	mod, gw := newModerationFixture()
	// Stale lower ranks must not confuse the ladder walk.
	gw.memberRoles["target-1"] = []string{"role-member", "role-admin"}

	newKey, err := mod.Promote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSrAdmin, newKey)
	assert.Contains(t, heldRoles(gw, "target-1"), "role-sr-admin")
	assert.NotContains(t, heldRoles(gw, "target-1"), "role-admin")
}

func TestDemoteModToMemberRevokesStaff(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-mod", "role-staff"}

	newKey, err := mod.Demote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, newKey)
	assert.ElementsMatch(t, []string{"role-member"}, heldRoles(gw, "target-1"))
}

func TestDemoteSwapsHigherRanks(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-admin", "role-staff"}

	newKey, err := mod.Demote(context.Background(), "manager-1", "target-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSrMod, newKey)
	assert.ElementsMatch(t, []string{"role-sr-mod", "role-staff"}, heldRoles(gw, "target-1"))
}

func TestDemoteAtLowestRank(t *testing.T) {
	mod, gw := newModerationFixture()
	gw.memberRoles["target-1"] = []string{"role-member"}

	_, err := mod.Demote(context.Background(), "manager-1", "target-1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "AT_LOWEST_RANK"))
}

func TestDemoteUnranked(t *testing.T) {
	mod, _ := newModerationFixture()

	_, err := mod.Demote(context.Background(), "manager-1", "target-1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "AT_LOWEST_RANK"))
}
