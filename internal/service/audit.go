package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/events"
	"github.com/vilyx-net/vector/internal/gateway"
)

// Audit subscribes to lifecycle events, logs them, and posts the
// user-facing ones to the configured logs channel.
type Audit struct {
	channels config.ChannelConfig
	gw       gateway.Gateway
	logger   *zap.Logger
}

// NewAudit constructs the service.
func NewAudit(channels config.ChannelConfig, gw gateway.Gateway, logger *zap.Logger) *Audit {
	return &Audit{channels: channels, gw: gw, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *Audit) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketCloseStarted, a.handleInternal)
	dispatcher.Subscribe(events.EventTicketCloseCanceled, a.handleInternal)
	dispatcher.Subscribe(events.EventTicketArchived, a.handleTicketArchived)
	dispatcher.Subscribe(events.EventTicketDeleted, a.handleTicketDeleted)
	dispatcher.Subscribe(events.EventStaffPromoted, a.handleRankChanged)
	dispatcher.Subscribe(events.EventStaffDemoted, a.handleRankChanged)
}

func (a *Audit) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	a.logger.Info("ticket created",
		zap.String("channel_id", event.ChannelID),
		zap.String("owner_id", payload.OwnerID),
		zap.String("category", string(payload.Category)))
	a.post(ctx, fmt.Sprintf("🎟️ %s opened a %s ticket.", gateway.MentionUser(payload.OwnerID), payload.Category))
	return nil
}

func (a *Audit) handleTicketArchived(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketArchivedPayload)
	a.logger.Info("ticket archived",
		zap.String("channel_id", event.ChannelID),
		zap.String("actor_id", event.ActorID))
	a.post(ctx, fmt.Sprintf("📦 Ticket %s archived by %s.", payload.ChannelName, gateway.MentionUser(event.ActorID)))
	return nil
}

func (a *Audit) handleTicketDeleted(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketDeletedPayload)
	a.logger.Info("ticket deleted",
		zap.String("channel_id", event.ChannelID),
		zap.String("actor_id", event.ActorID))
	a.post(ctx, fmt.Sprintf("❌ Archived ticket deleted: %s by %s", payload.ChannelName, gateway.MentionUser(event.ActorID)))
	return nil
}

func (a *Audit) handleRankChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RankChangedPayload)
	if !ok {
		return nil
	}
	verb := "promoted"
	emoji := "📈"
	if event.Type == events.EventStaffDemoted {
		verb = "demoted"
		emoji = "📉"
	}
	a.logger.Info("rank changed",
		zap.String("actor_id", event.ActorID),
		zap.String("subject_id", payload.SubjectID),
		zap.String("new_role", string(payload.NewRole)))
	a.post(ctx, fmt.Sprintf("%s %s %s %s to **%s**.",
		emoji, gateway.MentionUser(event.ActorID), verb, gateway.MentionUser(payload.SubjectID), payload.NewRole))
	return nil
}

// handleInternal records countdown starts and cancellations in the process
// log only; the channel log mirrors terminal actions.
func (a *Audit) handleInternal(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("channel_id", event.ChannelID),
		zap.String("actor_id", event.ActorID))
	return nil
}

func (a *Audit) post(ctx context.Context, content string) {
	if a.channels.Logs == "" {
		return
	}
	if _, err := a.gw.SendMessage(ctx, a.channels.Logs, gateway.Message{Content: content}); err != nil {
		a.logger.Warn("log channel post failed", zap.Error(err))
	}
}
