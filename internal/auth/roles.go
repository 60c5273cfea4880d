package auth

import (
	"context"

	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/gateway"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

// RoleChecker answers capability questions by querying the gateway for the
// member's current roles on every call. Role membership is never cached:
// the guild's role graph can change between invocations.
type RoleChecker struct {
	roles config.RoleConfig
	gw    gateway.Gateway
}

// NewRoleChecker constructs the checker.
func NewRoleChecker(roles config.RoleConfig, gw gateway.Gateway) *RoleChecker {
	return &RoleChecker{roles: roles, gw: gw}
}

// HasAnyRole reports whether the user currently holds any of the given
// role keys.
func (c *RoleChecker) HasAnyRole(ctx context.Context, userID string, keys ...domain.RoleKey) (bool, error) {
	held, err := c.gw.MemberRoles(ctx, userID)
	if err != nil {
		return false, apperrors.NewPlatformError("member roles", err)
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, id := range held {
		heldSet[id] = struct{}{}
	}
	for _, key := range keys {
		id := c.roles.RoleID(key)
		if id == "" {
			continue
		}
		if _, ok := heldSet[id]; ok {
			return true, nil
		}
	}
	return false, nil
}
