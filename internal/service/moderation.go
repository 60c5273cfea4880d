package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/events"
	"github.com/vilyx-net/vector/internal/gateway"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

// Moderation walks members up and down the configured rank ladder.
type Moderation struct {
	roleCfg config.RoleConfig
	gw      gateway.Gateway
	events  events.Dispatcher
	logger  *zap.Logger
}

// NewModeration constructs the service.
func NewModeration(roleCfg config.RoleConfig, gw gateway.Gateway, dispatcher events.Dispatcher, logger *zap.Logger) *Moderation {
	return &Moderation{roleCfg: roleCfg, gw: gw, events: dispatcher, logger: logger}
}

// Promote moves the target one rank up the ladder. The staff role is
// granted alongside the member-to-mod step, and the member role is kept
// through it; every other step swaps the old rank for the new one.
func (m *Moderation) Promote(ctx context.Context, actorID, targetID string) (domain.RoleKey, error) {
	rankIDs := m.roleCfg.RankIDs()
	current, err := m.currentRank(ctx, targetID, rankIDs)
	if err != nil {
		return "", err
	}
	if current >= len(rankIDs)-1 {
		return "", apperrors.NewDomainError("AT_HIGHEST_RANK", "already at the highest rank", http.StatusConflict, nil)
	}

	next := current + 1
	nextKey := domain.RankOrder[next]
	if rankIDs[next] == "" {
		return "", apperrors.NewConfigurationError("rank role " + string(nextKey) + " is not configured")
	}

	if err := m.gw.AddRole(ctx, targetID, rankIDs[next]); err != nil {
		return "", apperrors.NewPlatformError("add role", err)
	}

	memberToMod := current >= 0 && domain.RankOrder[current] == domain.RoleMember && nextKey == domain.RoleMod
	if current >= 0 && !memberToMod {
		if err := m.gw.RemoveRole(ctx, targetID, rankIDs[current]); err != nil {
			return "", apperrors.NewPlatformError("remove role", err)
		}
	}
	if memberToMod {
		if staffID := m.roleCfg.RoleID(domain.RoleStaff); staffID != "" {
			if err := m.gw.AddRole(ctx, targetID, staffID); err != nil {
				return "", apperrors.NewPlatformError("add staff role", err)
			}
		}
	}

	m.publish(ctx, events.EventStaffPromoted, actorID, targetID, nextKey)
	return nextKey, nil
}

// Demote moves the target one rank down the ladder. The staff role is
// revoked on the mod-to-member step.
func (m *Moderation) Demote(ctx context.Context, actorID, targetID string) (domain.RoleKey, error) {
	rankIDs := m.roleCfg.RankIDs()
	current, err := m.currentRank(ctx, targetID, rankIDs)
	if err != nil {
		return "", err
	}
	if current <= 0 {
		return "", apperrors.NewDomainError("AT_LOWEST_RANK", "already at the lowest rank", http.StatusConflict, nil)
	}

	prev := current - 1
	prevKey := domain.RankOrder[prev]
	if rankIDs[prev] == "" {
		return "", apperrors.NewConfigurationError("rank role " + string(prevKey) + " is not configured")
	}

	if err := m.gw.AddRole(ctx, targetID, rankIDs[prev]); err != nil {
		return "", apperrors.NewPlatformError("add role", err)
	}
	if err := m.gw.RemoveRole(ctx, targetID, rankIDs[current]); err != nil {
		return "", apperrors.NewPlatformError("remove role", err)
	}

	if domain.RankOrder[current] == domain.RoleMod && prevKey == domain.RoleMember {
		if staffID := m.roleCfg.RoleID(domain.RoleStaff); staffID != "" {
			if err := m.gw.RemoveRole(ctx, targetID, staffID); err != nil {
				return "", apperrors.NewPlatformError("remove staff role", err)
			}
		}
	}

	m.publish(ctx, events.EventStaffDemoted, actorID, targetID, prevKey)
	return prevKey, nil
}

// currentRank returns the index of the highest ladder role the target
// holds, -1 when unranked.
func (m *Moderation) currentRank(ctx context.Context, targetID string, rankIDs []string) (int, error) {
	held, err := m.gw.MemberRoles(ctx, targetID)
	if err != nil {
		return 0, apperrors.NewPlatformError("member roles", err)
	}
	heldSet := make(map[string]struct{}, len(held))
	for _, id := range held {
		heldSet[id] = struct{}{}
	}

	current := -1
	for i, id := range rankIDs {
		if id == "" {
			continue
		}
		if _, ok := heldSet[id]; ok {
			current = i
		}
	}
	return current, nil
}

func (m *Moderation) publish(ctx context.Context, eventType events.EventType, actorID, targetID string, newRole domain.RoleKey) {
	if m.events == nil {
		return
	}
	_ = m.events.Publish(ctx, events.Event{
		Type:    eventType,
		ActorID: actorID,
		Payload: events.RankChangedPayload{SubjectID: targetID, NewRole: newRole},
	})
}
