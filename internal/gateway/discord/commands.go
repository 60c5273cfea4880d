package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/domain"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "ip", Description: "Get the server IP"},
		{Name: "sendip", Description: "Send the server IP publicly"},
		{Name: "deleteticket", Description: "Delete an archived ticket"},
		{
			Name:        "promote",
			Description: "Promote a user to the next rank",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to promote",
				Required:    true,
			}},
		},
		{
			Name:        "demote",
			Description: "Demote a user to the previous rank",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to demote",
				Required:    true,
			}},
		},
		{
			Name:        "sendembed",
			Description: "Send a custom embed to the channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "The title of the embed",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The main message. Use '||' for a new line",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "hex_color",
					Description: "The embed color in hex format (e.g. FF0000). Optional",
					Required:    false,
				},
			},
		},
	}
}

func (b *Bot) onCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.ApplicationCommandData().Name {
	case "ip":
		b.handleIP(s, i, true)
	case "sendip":
		if !b.memberHasAny(i, domain.BroadcastRoles...) {
			b.respondEphemeral(s, i, "You do not have permission to use this command.")
			return
		}
		b.handleIP(s, i, false)
	case "deleteticket":
		b.handleDeleteTicket(ctx, s, i)
	case "promote":
		b.handleRankChange(ctx, s, i, true)
	case "demote":
		b.handleRankChange(ctx, s, i, false)
	case "sendembed":
		b.handleSendEmbed(s, i)
	}
}

func (b *Bot) handleIP(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	embed := &discordgo.MessageEmbed{
		Title: "🎮 How to Join Vilyx",
		Description: fmt.Sprintf(
			"> 1. Click on **Multiplayer**\n"+
				"> 2. Click on **Add Server**\n"+
				"> 3. For **Server Address**, type in `%s`\n"+
				"> 4. Save and **Connect!**", b.cfg.Bot.ServerAddr),
		Color: 0x00AAEE,
	}

	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		b.logger.Warn("interaction response failed", zap.Error(err))
	}
}

func (b *Bot) handleDeleteTicket(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.memberHasAny(i, domain.TicketDeleteRoles...) {
		b.respondEphemeral(s, i, "No permission.")
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	// Ack first: once the channel is gone the interaction can only be
	// reached through its follow-up webhook.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		b.logger.Warn("interaction ack failed", zap.Error(err))
		return
	}

	if err := b.lifecycle.DeleteTicket(ctx, i.ChannelID, user.ID); err != nil {
		b.followupEphemeral(s, i, errorText(err))
		return
	}
	b.followupEphemeral(s, i, "Ticket deleted.")
}

func (b *Bot) handleRankChange(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, promote bool) {
	if !b.memberHasAny(i, domain.RankManageRoles...) {
		b.respondEphemeral(s, i, "You do not have permission to use this command.")
		return
	}
	actor := interactionUser(i)
	if actor == nil {
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondEphemeral(s, i, "A user is required.")
		return
	}
	target := options[0].UserValue(s)
	if target == nil {
		b.respondEphemeral(s, i, "A user is required.")
		return
	}

	var (
		newRole domain.RoleKey
		err     error
		verb    = "promoted"
	)
	if promote {
		newRole, err = b.moderation.Promote(ctx, actor.ID, target.ID)
	} else {
		verb = "demoted"
		newRole, err = b.moderation.Demote(ctx, actor.ID, target.ID)
	}
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respondEphemeral(s, i, fmt.Sprintf("%s has been %s to %s.", target.Username, verb, newRole))
}

func (b *Bot) handleSendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.memberHasAny(i, domain.RankManageRoles...) {
		b.respondEphemeral(s, i, "You do not have permission to use this command.")
		return
	}

	var title, message, hexColor string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "title":
			title = opt.StringValue()
		case "message":
			message = opt.StringValue()
		case "hex_color":
			hexColor = opt.StringValue()
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.ReplaceAll(message, "||", "\n"),
		Color:       b.parseEmbedColor(s, i.ChannelID, hexColor),
	}

	if _, err := s.ChannelMessageSendEmbed(i.ChannelID, embed); err != nil {
		b.logger.Warn("embed send failed", zap.Error(err))
		b.respondEphemeral(s, i, "Failed to send the embed.")
		return
	}
	b.respondEphemeral(s, i, "Embed successfully sent!")
}

// parseEmbedColor validates the hex color, warning staff in-channel and
// falling back to the default on bad input.
func (b *Bot) parseEmbedColor(s *discordgo.Session, channelID, hexColor string) int {
	const defaultColor = 0x00AAEE
	if hexColor == "" {
		return defaultColor
	}

	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 {
		b.sendTransientWarning(s, channelID, "⚠️ Staff warning: Hex color must be exactly 6 characters. Using default color.")
		return defaultColor
	}
	parsed, err := strconv.ParseInt(hexColor, 16, 32)
	if err != nil {
		b.sendTransientWarning(s, channelID, fmt.Sprintf("⚠️ Staff warning: The hex color '%s' was invalid. Using default color.", hexColor))
		return defaultColor
	}
	return int(parsed)
}

func (b *Bot) sendTransientWarning(s *discordgo.Session, channelID, content string) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		b.logger.Warn("warning message failed", zap.Error(err))
		return
	}
	time.AfterFunc(10*time.Second, func() {
		if err := s.ChannelMessageDelete(channelID, msg.ID); err != nil {
			b.logger.Debug("warning cleanup failed", zap.Error(err))
		}
	})
}

func (b *Bot) followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		b.logger.Warn("interaction followup failed", zap.Error(err))
	}
}
