package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/auth"
	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/events"
	"github.com/vilyx-net/vector/internal/gateway"
	"github.com/vilyx-net/vector/internal/observability"
	"github.com/vilyx-net/vector/internal/repository"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

const embedColor = 0x00AAEE

// Button ids owned by the lifecycle surface.
const (
	ButtonTicketClose       = "ticket_close"
	ButtonTicketCancelClose = "ticket_cancel_close"
)

// Lifecycle owns the ticket state machine. It validates state, mutates the
// store, emits platform side effects through the gateway, and runs the
// close-countdown coordinators. It never caches a record across calls: the
// store is re-read before every transition.
type Lifecycle struct {
	channels config.ChannelConfig
	roleCfg  config.RoleConfig
	tickets  config.TicketConfig
	// The platform's default role shares the guild id; denying it view
	// hides the ticket from everyone not explicitly granted.
	defaultRoleID string

	store   repository.TicketStore
	gw      gateway.Gateway
	roles   *auth.RoleChecker
	events  events.Dispatcher
	logger  *zap.Logger
	metrics *observability.Metrics
	clock   clock.Clock

	mu      sync.Mutex
	closing map[string]*CloseCountdown
}

// LifecycleDeps bundles dependencies for the lifecycle controller.
type LifecycleDeps struct {
	Channels      config.ChannelConfig
	Roles         config.RoleConfig
	Tickets       config.TicketConfig
	DefaultRoleID string
	Store         repository.TicketStore
	Gateway       gateway.Gateway
	RoleChecker   *auth.RoleChecker
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Clock         clock.Clock
}

// NewLifecycle constructs the controller.
func NewLifecycle(deps LifecycleDeps) *Lifecycle {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Lifecycle{
		channels:      deps.Channels,
		roleCfg:       deps.Roles,
		tickets:       deps.Tickets,
		defaultRoleID: deps.DefaultRoleID,
		store:         deps.Store,
		gw:            deps.Gateway,
		roles:         deps.RoleChecker,
		events:        deps.Dispatcher,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		clock:         clk,
		closing:       make(map[string]*CloseCountdown),
	}
}

// CreateTicket opens a new ticket channel for the requester. Callers are
// assumed pre-authorized; the panel is open to everyone.
func (l *Lifecycle) CreateTicket(ctx context.Context, requesterID, requesterName string, category domain.TicketCategory) (*domain.TicketRecord, error) {
	if !category.Known() {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("unknown ticket category %q", category))
	}

	sensitive := category.Sensitive()
	parentID := l.tickets.GeneralCategoryID
	if sensitive {
		parentID = l.tickets.StaffStoreCategoryID
	}
	if parentID == "" {
		// Creating an ungoverned channel would bypass the visibility
		// rules entirely; abort instead.
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("no parent category configured for %q tickets", category))
	}

	overrides := []gateway.PermissionOverride{
		{PrincipalID: l.defaultRoleID, Type: gateway.OverrideRole, Allow: false},
		{PrincipalID: requesterID, Type: gateway.OverrideMember, Allow: true},
	}
	staffRoleID := l.roleCfg.RoleID(domain.RoleStaff)
	if !sensitive {
		if staffRoleID != "" {
			overrides = append(overrides, gateway.PermissionOverride{
				PrincipalID: staffRoleID, Type: gateway.OverrideRole, Allow: true,
			})
		}
	} else {
		for _, id := range l.roleCfg.RoleIDs(domain.SensitiveTicketRoles) {
			overrides = append(overrides, gateway.PermissionOverride{
				PrincipalID: id, Type: gateway.OverrideRole, Allow: true,
			})
		}
	}

	channelID, err := l.gw.CreateChannel(ctx, gateway.ChannelCreate{
		Name:      strings.ToLower(requesterName),
		Topic:     fmt.Sprintf("Ticket by %s", requesterID),
		ParentID:  parentID,
		Overrides: overrides,
	})
	if err != nil {
		return nil, apperrors.NewPlatformError("create channel", err)
	}

	rec, err := l.store.Create(ctx, channelID, requesterID, category)
	if err != nil {
		// A live channel without a record would permanently bypass the
		// archived-before-delete invariant; roll the channel back.
		l.logger.Error("ticket record write failed after channel creation",
			zap.String("channel_id", channelID), zap.Error(err))
		if delErr := l.gw.DeleteChannel(ctx, channelID); delErr != nil {
			l.logger.Error("rollback channel deletion failed; manual reconciliation required",
				zap.String("channel_id", channelID), zap.Error(delErr))
		}
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.NewAlreadyExists("ticket", map[string]any{"channel_id": channelID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	l.metrics.RecordTransition("create")
	l.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		ChannelID: channelID,
		ActorID:   requesterID,
		Payload:   events.TicketCreatedPayload{OwnerID: requesterID, Category: category},
	})

	content := gateway.MentionUser(requesterID)
	if !sensitive && staffRoleID != "" {
		content = gateway.MentionRole(staffRoleID) + " | " + content
	}
	welcome := gateway.Message{
		Content: content,
		Embed: &gateway.Embed{
			Title:       fmt.Sprintf("%s Ticket", category),
			Description: fmt.Sprintf("%s, please explain your issue below.\nA staff member will assist you shortly.", gateway.MentionUser(requesterID)),
			Color:       embedColor,
		},
		Buttons: []gateway.Button{
			{CustomID: ButtonTicketClose, Label: "Close Ticket", Style: gateway.ButtonDanger},
		},
	}
	if _, err := l.gw.SendMessage(ctx, channelID, welcome); err != nil {
		// The ticket exists and is recorded; a missing welcome message is
		// recoverable by staff.
		l.logger.Warn("welcome message failed", zap.String("channel_id", channelID), zap.Error(err))
	}

	return rec, nil
}

// InitiateClose starts a close countdown for the channel. The requester
// must hold a moderation role. A second call while a countdown is active
// returns ALREADY_CLOSING and does not reset the running countdown.
func (l *Lifecycle) InitiateClose(ctx context.Context, channelID, actorID string) (*CloseCountdown, error) {
	allowed, err := l.roles.HasAnyRole(ctx, actorID, domain.TicketCloseRoles...)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewForbidden("you do not have permission to close this ticket")
	}

	rec, err := l.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if rec.Archived {
		return nil, apperrors.NewDomainError("ALREADY_ARCHIVED", "this ticket is already archived", 409,
			map[string]any{"channel_id": channelID})
	}

	// Check-and-set under one lock: two rapid close presses must yield
	// exactly one coordinator.
	l.mu.Lock()
	if _, active := l.closing[channelID]; active {
		l.mu.Unlock()
		return nil, apperrors.NewAlreadyClosing(channelID)
	}
	cd := newCloseCountdown(channelID, actorID, l.tickets.CloseCountdownSecs, l.clock)
	l.closing[channelID] = cd
	l.mu.Unlock()

	messageID, err := l.gw.SendMessage(ctx, channelID, gateway.Message{
		Content: fmt.Sprintf("⚠️ **Ticket Closure Initiated!** Closing in %d seconds...", cd.seconds),
		Buttons: []gateway.Button{cancelButton(false)},
	})
	if err != nil {
		l.finishCountdown(cd)
		return nil, apperrors.NewPlatformError("announce countdown", err)
	}
	cd.messageID = messageID

	l.publish(ctx, events.Event{
		Type:      events.EventTicketCloseStarted,
		ChannelID: channelID,
		ActorID:   actorID,
	})

	go l.runCountdown(cd)
	return cd, nil
}

// CancelClose aborts a running countdown. Deliberately unrestricted:
// anyone who can see the ticket may press cancel, matching the close
// surface the bot has always shipped.
func (l *Lifecycle) CancelClose(ctx context.Context, channelID, actorID string) error {
	l.mu.Lock()
	cd := l.closing[channelID]
	l.mu.Unlock()
	if cd == nil {
		return apperrors.NewNotFound("close countdown", map[string]any{"channel_id": channelID})
	}

	if !cd.Cancel() {
		// Second press on an already-cancelled countdown is a no-op.
		return nil
	}

	if err := l.gw.EditMessage(ctx, channelID, cd.messageID, gateway.Message{
		Content: "**Ticket closing CANCELLED.** You can close it again later.",
		Buttons: []gateway.Button{cancelButton(true)},
	}); err != nil {
		l.logger.Warn("cancel edit failed", zap.String("channel_id", channelID), zap.Error(err))
	}

	l.metrics.RecordTransition("close_canceled")
	l.publish(ctx, events.Event{
		Type:      events.EventTicketCloseCanceled,
		ChannelID: channelID,
		ActorID:   actorID,
	})
	return nil
}

// runCountdown ticks the coordinator to completion. The cancellation flag
// is checked before every tick; once set, the loop stops without touching
// the record and the ticket stays OPEN.
func (l *Lifecycle) runCountdown(cd *CloseCountdown) {
	defer l.finishCountdown(cd)
	ctx := context.Background()

	for remaining := cd.seconds - 1; remaining >= 1; remaining-- {
		if cd.Cancelled() {
			return
		}
		if err := l.gw.EditMessage(ctx, cd.ChannelID, cd.messageID, gateway.Message{
			Content: fmt.Sprintf("Closing in %d...", remaining),
			Buttons: []gateway.Button{cancelButton(false)},
		}); err != nil {
			l.logger.Warn("countdown edit failed", zap.String("channel_id", cd.ChannelID), zap.Error(err))
		}
		cd.clock.Sleep(time.Second)
	}
	if cd.Cancelled() {
		return
	}

	if err := l.gw.EditMessage(ctx, cd.ChannelID, cd.messageID, gateway.Message{
		Content: "Archiving ticket now...",
	}); err != nil {
		l.logger.Warn("countdown edit failed", zap.String("channel_id", cd.ChannelID), zap.Error(err))
	}

	if err := l.Archive(ctx, cd.ChannelID, cd.ActorID); err != nil {
		l.logger.Error("archive after countdown failed",
			zap.String("channel_id", cd.ChannelID), zap.Error(err))
		return
	}

	if err := l.gw.SendDirect(ctx, cd.ActorID, gateway.Message{
		Content: "Ticket successfully archived.",
	}); err != nil {
		l.logger.Warn("archive confirmation failed", zap.String("actor_id", cd.ActorID), zap.Error(err))
	}
}

// Archive moves the channel under the archive category with inherited
// permissions, renames it with the archived- marker, and flags the record.
func (l *Lifecycle) Archive(ctx context.Context, channelID, actorID string) error {
	rec, err := l.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return apperrors.NewInternalError(err)
	}
	if rec.Archived {
		l.logger.Warn("archive called on archived ticket", zap.String("channel_id", channelID))
		return nil
	}
	if l.tickets.ArchivedCategoryID == "" {
		return apperrors.NewConfigurationError("no archive category configured")
	}

	name, err := l.gw.ChannelName(ctx, channelID)
	if err != nil {
		return apperrors.NewPlatformError("channel name", err)
	}

	// Flag the record first: a crash between the store write and the
	// channel edit leaves an unmoved-but-archived ticket, which stays
	// deletable and is reconcilable by hand. The reverse order could not
	// be repaired without touching the store directly.
	if err := l.store.SetArchived(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return apperrors.NewInternalError(err)
	}

	newName := "archived-" + name
	if err := l.gw.EditChannel(ctx, channelID, gateway.ChannelEdit{
		Name:               newName,
		ParentID:           l.tickets.ArchivedCategoryID,
		InheritPermissions: true,
	}); err != nil {
		l.logger.Error("channel archive edit failed; record is archived, channel needs manual move",
			zap.String("channel_id", channelID), zap.Error(err))
		return apperrors.NewPlatformError("archive channel", err)
	}

	l.metrics.RecordTransition("archive")
	l.publish(ctx, events.Event{
		Type:      events.EventTicketArchived,
		ChannelID: channelID,
		ActorID:   actorID,
		Payload:   events.TicketArchivedPayload{ChannelName: newName},
	})
	return nil
}

// DeleteTicket removes the record and then the channel. Archival is a hard
// precondition; violating it is rejected, never ignored.
func (l *Lifecycle) DeleteTicket(ctx context.Context, channelID, actorID string) error {
	rec, err := l.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return apperrors.NewInternalError(err)
	}
	if !rec.Archived {
		return apperrors.NewNotArchived(channelID)
	}

	name, err := l.gw.ChannelName(ctx, channelID)
	if err != nil {
		name = channelID
	}

	// Record removal before channel deletion: a crash in between leaves
	// an orphaned channel, never an unrecorded one.
	if err := l.store.Remove(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
		}
		return apperrors.NewInternalError(err)
	}
	if err := l.gw.DeleteChannel(ctx, channelID); err != nil {
		l.logger.Error("channel deletion failed; record is gone, channel needs manual deletion",
			zap.String("channel_id", channelID), zap.Error(err))
		return apperrors.NewPlatformError("delete channel", err)
	}

	l.metrics.RecordTransition("delete")
	l.publish(ctx, events.Event{
		Type:      events.EventTicketDeleted,
		ChannelID: channelID,
		ActorID:   actorID,
		Payload:   events.TicketDeletedPayload{ChannelName: name},
	})
	return nil
}

// State reports the live lifecycle state for a channel, including the
// unpersisted CLOSING state.
func (l *Lifecycle) State(ctx context.Context, channelID string) (domain.TicketState, error) {
	l.mu.Lock()
	_, closing := l.closing[channelID]
	l.mu.Unlock()

	rec, err := l.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TicketStateNone, nil
		}
		return domain.TicketStateNone, apperrors.NewInternalError(err)
	}
	if closing && !rec.Archived {
		return domain.TicketStateClosing, nil
	}
	return rec.State(), nil
}

// ActiveCountdowns reports how many close countdowns are running.
func (l *Lifecycle) ActiveCountdowns() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.closing)
}

func (l *Lifecycle) finishCountdown(cd *CloseCountdown) {
	l.mu.Lock()
	if l.closing[cd.ChannelID] == cd {
		delete(l.closing, cd.ChannelID)
	}
	l.mu.Unlock()
	close(cd.done)
}

func (l *Lifecycle) publish(ctx context.Context, event events.Event) {
	if l.events == nil {
		return
	}
	_ = l.events.Publish(ctx, event)
}

func cancelButton(disabled bool) gateway.Button {
	return gateway.Button{
		CustomID: ButtonTicketCancelClose,
		Label:    "❌ Cancel Close",
		Style:    gateway.ButtonSecondary,
		Disabled: disabled,
	}
}
