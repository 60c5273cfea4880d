package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/service"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.onComponent(s, i)
	case discordgo.InteractionApplicationCommand:
		b.onCommand(s, i)
	}
}

func (b *Bot) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	customID := i.MessageComponentData().CustomID

	if category, ok := panelCategories[customID]; ok {
		b.handleCreateTicket(ctx, s, i, category)
		return
	}

	switch customID {
	case service.ButtonTicketClose:
		b.handleCloseTicket(ctx, s, i)
	case service.ButtonTicketCancelClose:
		b.handleCancelClose(ctx, s, i)
	}
}

func (b *Bot) handleCreateTicket(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, category domain.TicketCategory) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	if _, err := b.lifecycle.CreateTicket(ctx, user.ID, user.Username, category); err != nil {
		b.logger.Error("ticket creation failed",
			zap.String("user_id", user.ID), zap.String("category", string(category)), zap.Error(err))
		b.respondError(s, i, err)
		return
	}
	b.respondEphemeral(s, i, "Ticket created.")
}

func (b *Bot) handleCloseTicket(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	if _, err := b.lifecycle.InitiateClose(ctx, i.ChannelID, user.ID); err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEphemeral(s, i, "Closure initiated.")
}

func (b *Bot) handleCancelClose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	// The service edits the countdown message itself; the press only needs
	// acknowledging.
	if err := b.lifecycle.CancelClose(ctx, i.ChannelID, user.ID); err != nil {
		b.respondError(s, i, err)
		return
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.logger.Warn("interaction ack failed", zap.Error(err))
	}
}

// memberHasAny checks the role ids carried on the interaction against the
// configured keys. Interaction payloads carry the member's current roles,
// so this is a live check.
func (b *Bot) memberHasAny(i *discordgo.InteractionCreate, keys ...domain.RoleKey) bool {
	if i.Member == nil {
		return false
	}
	held := make(map[string]struct{}, len(i.Member.Roles))
	for _, id := range i.Member.Roles {
		held[id] = struct{}{}
	}
	for _, key := range keys {
		id := b.cfg.Roles.RoleID(key)
		if id == "" {
			continue
		}
		if _, ok := held[id]; ok {
			return true
		}
	}
	return false
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		b.logger.Warn("interaction response failed", zap.Error(err))
	}
}

// respondError maps domain errors onto private user-visible replies.
func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	b.respondEphemeral(s, i, errorText(err))
}

func errorText(err error) string {
	domainErr := apperrors.ToDomainError(err)
	switch domainErr.Code {
	case "INTERNAL_ERROR", "PLATFORM_ERROR":
		return "Something went wrong. Please try again or contact an administrator."
	case "CONFIGURATION_ERROR":
		return "❌ Configuration error: " + domainErr.Message + ". Please contact an administrator."
	default:
		return domainErr.Message
	}
}
