package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/domain"
)

// Panel button ids, one per ticket category.
var panelCategories = map[string]domain.TicketCategory{
	"ticket_general":      domain.CategoryGeneralSupport,
	"ticket_bug":          domain.CategoryBugReport,
	"ticket_player":       domain.CategoryPlayerReport,
	"ticket_media":        domain.CategoryMediaApplications,
	"ticket_staff":        domain.CategoryStaffApplications,
	"ticket_appeal":       domain.CategoryAppeals,
	"ticket_staff_report": domain.CategoryStaffReport,
	"ticket_store":        domain.CategoryStoreIssues,
}

// ensurePanel puts the ticket panel in the configured channel. A cached
// panel message is edited in place; otherwise the channel is cleared and
// the panel reposted.
func (b *Bot) ensurePanel(ctx context.Context, s *discordgo.Session) error {
	channelID := b.cfg.Channels.TicketPanel
	if channelID == "" {
		b.logger.Warn("no ticket panel channel configured")
		return nil
	}

	embeds := []*discordgo.MessageEmbed{{
		Title:       "🎫 Vilyx Tickets",
		Description: "Select a category below to open a ticket:",
		Color:       0x00AAEE,
	}}
	components := panelComponents()

	if cached, err := b.panel.MessageID(ctx); err == nil && cached != "" {
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    channelID,
			ID:         cached,
			Embeds:     &embeds,
			Components: &components,
		}); err == nil {
			b.logger.Info("ticket panel refreshed", zap.String("message_id", cached))
			return nil
		}
		// Fall through to a repost if the cached message is gone.
	}

	b.purgeChannel(s, channelID)

	sent, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     embeds,
		Components: components,
	})
	if err != nil {
		return err
	}
	if err := b.panel.SetMessageID(ctx, sent.ID); err != nil {
		b.logger.Warn("panel message cache write failed", zap.Error(err))
	}
	b.logger.Info("ticket panel posted", zap.String("message_id", sent.ID))
	return nil
}

func (b *Bot) purgeChannel(s *discordgo.Session, channelID string) {
	messages, err := s.ChannelMessages(channelID, 100, "", "", "")
	if err != nil {
		b.logger.Warn("panel channel read failed", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if err := s.ChannelMessagesBulkDelete(channelID, ids); err != nil {
		b.logger.Warn("panel channel purge failed", zap.Error(err))
	}
}

func panelComponents() []discordgo.MessageComponent {
	general := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "🎫 General Support", Style: discordgo.SuccessButton, CustomID: "ticket_general"},
		discordgo.Button{Label: "🐛 Bug Report", Style: discordgo.SuccessButton, CustomID: "ticket_bug"},
		discordgo.Button{Label: "🔪 Player Report", Style: discordgo.SuccessButton, CustomID: "ticket_player"},
		discordgo.Button{Label: "🎥 Media Applications", Style: discordgo.SuccessButton, CustomID: "ticket_media"},
	}}
	staff := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "👮 Staff Applications", Style: discordgo.DangerButton, CustomID: "ticket_staff"},
		discordgo.Button{Label: "🔨 Appeal a Punishment", Style: discordgo.DangerButton, CustomID: "ticket_appeal"},
		discordgo.Button{Label: "❗ Report a Staff Member", Style: discordgo.DangerButton, CustomID: "ticket_staff_report"},
		discordgo.Button{Label: "🛒 Store Issues", Style: discordgo.DangerButton, CustomID: "ticket_store"},
	}}
	return []discordgo.MessageComponent{general, staff}
}
