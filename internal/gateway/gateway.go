// Package gateway defines the narrow contract the ticket core uses to talk
// to the chat platform. The core never imports a platform SDK directly;
// adapters implement this interface and tests substitute fakes.
package gateway

import "context"

// OverrideType distinguishes the principal kind of a permission override.
type OverrideType int

const (
	OverrideRole OverrideType = iota
	OverrideMember
)

// PermissionOverride grants or denies channel visibility for one principal.
// Allow grants view+send; deny removes view.
type PermissionOverride struct {
	PrincipalID string
	Type        OverrideType
	Allow       bool
}

// ChannelCreate describes a channel creation request.
type ChannelCreate struct {
	Name      string
	Topic     string
	ParentID  string
	Overrides []PermissionOverride
}

// ChannelEdit describes a channel mutation. Zero-valued fields are left
// untouched. InheritPermissions replaces per-principal overrides with the
// new parent's.
type ChannelEdit struct {
	Name               string
	ParentID           string
	InheritPermissions bool
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	Color       int
}

// ButtonStyle selects the rendering of an interactive control.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSuccess
	ButtonDanger
	ButtonSecondary
)

// Button is an interactive control attached to a message.
type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// Message is an outbound message payload.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
}

// Gateway is the outbound platform surface the core calls.
type Gateway interface {
	CreateChannel(ctx context.Context, create ChannelCreate) (channelID string, err error)
	EditChannel(ctx context.Context, channelID string, edit ChannelEdit) error
	DeleteChannel(ctx context.Context, channelID string) error
	ChannelName(ctx context.Context, channelID string) (string, error)

	SendMessage(ctx context.Context, channelID string, msg Message) (messageID string, err error)
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	SendDirect(ctx context.Context, userID string, msg Message) error

	MemberRoles(ctx context.Context, userID string) ([]string, error)
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// MentionUser renders a user mention for message content.
func MentionUser(userID string) string {
	return "<@" + userID + ">"
}

// MentionRole renders a role mention for message content.
func MentionRole(roleID string) string {
	return "<@&" + roleID + ">"
}
