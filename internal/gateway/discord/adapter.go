// Package discord adapts the chat platform contract onto a discordgo
// session. The ticket core only sees the gateway interface.
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/vilyx-net/vector/internal/gateway"
)

// Adapter implements gateway.Gateway for a single guild.
type Adapter struct {
	session *discordgo.Session
	guildID string
}

// NewAdapter wraps a session for the configured guild.
func NewAdapter(session *discordgo.Session, guildID string) *Adapter {
	return &Adapter{session: session, guildID: guildID}
}

var _ gateway.Gateway = (*Adapter)(nil)

func (a *Adapter) CreateChannel(ctx context.Context, create gateway.ChannelCreate) (string, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(create.Overrides))
	for _, o := range create.Overrides {
		overwrites = append(overwrites, permissionOverwrite(o))
	}

	channel, err := a.session.GuildChannelCreateComplex(a.guildID, discordgo.GuildChannelCreateData{
		Name:                 create.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                create.Topic,
		ParentID:             create.ParentID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

func (a *Adapter) EditChannel(ctx context.Context, channelID string, edit gateway.ChannelEdit) error {
	data := &discordgo.ChannelEdit{}
	if edit.Name != "" {
		data.Name = edit.Name
	}
	if edit.ParentID != "" {
		data.ParentID = edit.ParentID
	}
	if edit.InheritPermissions && edit.ParentID != "" {
		// Permission sync means replacing the channel's overrides with the
		// new parent's; per-user grants from the ticket's lifetime are
		// dropped on purpose.
		parent, err := a.session.Channel(edit.ParentID)
		if err != nil {
			return err
		}
		data.PermissionOverwrites = parent.PermissionOverwrites
	}
	_, err := a.session.ChannelEdit(channelID, data)
	return err
}

func (a *Adapter) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := a.session.ChannelDelete(channelID)
	return err
}

func (a *Adapter) ChannelName(ctx context.Context, channelID string) (string, error) {
	channel, err := a.session.Channel(channelID)
	if err != nil {
		return "", err
	}
	return channel.Name, nil
}

func (a *Adapter) SendMessage(ctx context.Context, channelID string, msg gateway.Message) (string, error) {
	sent, err := a.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     buildEmbeds(msg.Embed),
		Components: buildComponents(msg.Buttons),
	})
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (a *Adapter) EditMessage(ctx context.Context, channelID, messageID string, msg gateway.Message) error {
	content := msg.Content
	embeds := buildEmbeds(msg.Embed)
	components := buildComponents(msg.Buttons)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func (a *Adapter) SendDirect(ctx context.Context, userID string, msg gateway.Message) error {
	channel, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = a.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  buildEmbeds(msg.Embed),
	})
	return err
}

func (a *Adapter) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	member, err := a.session.GuildMember(a.guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (a *Adapter) AddRole(ctx context.Context, userID, roleID string) error {
	return a.session.GuildMemberRoleAdd(a.guildID, userID, roleID)
}

func (a *Adapter) RemoveRole(ctx context.Context, userID, roleID string) error {
	return a.session.GuildMemberRoleRemove(a.guildID, userID, roleID)
}

func permissionOverwrite(o gateway.PermissionOverride) *discordgo.PermissionOverwrite {
	overwriteType := discordgo.PermissionOverwriteTypeRole
	if o.Type == gateway.OverrideMember {
		overwriteType = discordgo.PermissionOverwriteTypeMember
	}
	if o.Allow {
		return &discordgo.PermissionOverwrite{
			ID:    o.PrincipalID,
			Type:  overwriteType,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		}
	}
	return &discordgo.PermissionOverwrite{
		ID:   o.PrincipalID,
		Type: overwriteType,
		Deny: discordgo.PermissionViewChannel,
	}
}

func buildEmbeds(embed *gateway.Embed) []*discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}}
}

func buildComponents(buttons []gateway.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		row.Components = append(row.Components, discordgo.Button{
			CustomID: b.CustomID,
			Label:    b.Label,
			Style:    buttonStyle(b.Style),
			Disabled: b.Disabled,
		})
	}
	return []discordgo.MessageComponent{row}
}

func buttonStyle(style gateway.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case gateway.ButtonSuccess:
		return discordgo.SuccessButton
	case gateway.ButtonDanger:
		return discordgo.DangerButton
	case gateway.ButtonSecondary:
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}
