package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/repository"
	"github.com/vilyx-net/vector/internal/service"
)

// NewSession builds an unopened discordgo session with the intents the bot
// needs.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return session, nil
}

// Bot hosts the inbound side of the gateway: ready handling, command sync,
// panel posting and interaction routing.
type Bot struct {
	cfg        *config.Config
	session    *discordgo.Session
	lifecycle  *service.Lifecycle
	moderation *service.Moderation
	panel      *repository.PanelCache
	logger     *zap.Logger
}

// BotDeps bundles dependencies for the bot front end.
type BotDeps struct {
	Config     *config.Config
	Session    *discordgo.Session
	Lifecycle  *service.Lifecycle
	Moderation *service.Moderation
	PanelCache *repository.PanelCache
	Logger     *zap.Logger
}

// NewBot constructs the front end and registers its handlers on the session.
func NewBot(deps BotDeps) *Bot {
	b := &Bot{
		cfg:        deps.Config,
		session:    deps.Session,
		lifecycle:  deps.Lifecycle,
		moderation: deps.Moderation,
		panel:      deps.PanelCache,
		logger:     deps.Logger,
	}
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	return b
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	return b.session.Open()
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("bot online", zap.String("user", r.User.String()))

	if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusDoNotDisturb),
		Activities: []*discordgo.Activity{{
			Name: b.cfg.Bot.StatusText,
			Type: discordgo.ActivityTypeWatching,
		}},
	}); err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
	}

	// Command sync failures are logged and left alone; the bot still
	// serves buttons and previously synced commands.
	if err := b.syncCommands(s); err != nil {
		b.logger.Error("slash command sync failed", zap.Error(err))
	}

	if err := b.ensurePanel(context.Background(), s); err != nil {
		b.logger.Error("ticket panel setup failed", zap.Error(err))
	}
}

func (b *Bot) syncCommands(s *discordgo.Session) error {
	commands := commandDefinitions()
	synced, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, b.cfg.Bot.GuildID, commands)
	if err != nil {
		return err
	}
	b.logger.Info("slash commands synced",
		zap.Int("count", len(synced)), zap.String("guild_id", b.cfg.Bot.GuildID))
	return nil
}
