package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vilyx-net/vector/internal/domain"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	Bot      BotConfig
	Channels ChannelConfig
	Roles    RoleConfig
	Tickets  TicketConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Ops      OpsConfig
}

// BotConfig holds gateway-level settings.
type BotConfig struct {
	Token      string
	GuildID    string
	StatusText string
	ServerAddr string
}

// ChannelConfig holds fixed channel ids.
type ChannelConfig struct {
	Logs        string
	TicketPanel string
}

// RoleConfig maps role keys to guild role ids.
type RoleConfig struct {
	IDs map[domain.RoleKey]string
}

// TicketConfig holds ticket category-group ids and close behavior.
type TicketConfig struct {
	GeneralCategoryID    string
	StaffStoreCategoryID string
	ArchivedCategoryID   string
	CloseCountdownSecs   int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// OpsConfig configures the operator HTTP surface.
type OpsConfig struct {
	Host      string
	Port      string
	JWTSecret string
	TokenTTL  int
}

// Load reads configuration from environment variables, applying defaults
// where possible. The bot token and guild id are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	guildID := os.Getenv("GUILD_ID")
	if guildID == "" {
		return nil, fmt.Errorf("GUILD_ID is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	roleIDs := make(map[domain.RoleKey]string)
	for key, envKey := range roleEnvKeys {
		roleIDs[key] = os.Getenv(envKey)
	}

	cfg := &Config{
		Bot: BotConfig{
			Token:      token,
			GuildID:    guildID,
			StatusText: getEnv("BOT_STATUS", "Watching Vilyx Network"),
			ServerAddr: getEnv("SERVER_ADDR", "play.vilyx.net"),
		},
		Channels: ChannelConfig{
			Logs:        os.Getenv("CHANNEL_LOGS"),
			TicketPanel: os.Getenv("CHANNEL_TICKET_PANEL"),
		},
		Roles: RoleConfig{IDs: roleIDs},
		Tickets: TicketConfig{
			GeneralCategoryID:    os.Getenv("TICKETS_GENERAL_CATEGORY"),
			StaffStoreCategoryID: os.Getenv("TICKETS_STAFF_STORE_CATEGORY"),
			ArchivedCategoryID:   os.Getenv("TICKETS_ARCHIVED_CATEGORY"),
			CloseCountdownSecs:   getEnvAsInt("TICKETS_CLOSE_COUNTDOWN_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ops: OpsConfig{
			Host:      getEnv("OPS_HOST", "0.0.0.0"),
			Port:      getEnv("OPS_PORT", "8080"),
			JWTSecret: getEnv("OPS_JWT_SECRET", "dev-secret"),
			TokenTTL:  getEnvAsInt("OPS_TOKEN_TTL_MINUTES", 60),
		},
	}

	return cfg, nil
}

var roleEnvKeys = map[domain.RoleKey]string{
	domain.RoleMember:    "ROLE_MEMBER",
	domain.RoleMod:       "ROLE_MOD",
	domain.RoleSrMod:     "ROLE_SR_MOD",
	domain.RoleAdmin:     "ROLE_ADMIN",
	domain.RoleSrAdmin:   "ROLE_SR_ADMIN",
	domain.RoleManager:   "ROLE_MANAGER",
	domain.RoleOwner:     "ROLE_OWNER",
	domain.RoleStaff:     "ROLE_STAFF",
	domain.RoleDeveloper: "ROLE_DEVELOPER",
}

// RoleID returns the configured role id for a key, empty if unset.
func (r RoleConfig) RoleID(key domain.RoleKey) string {
	return r.IDs[key]
}

// RoleIDs resolves role keys to the configured ids, skipping unset keys.
func (r RoleConfig) RoleIDs(keys []domain.RoleKey) []string {
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id := r.IDs[key]; id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RankIDs resolves the promotion ladder to role ids, preserving order.
// Unset ranks stay in place as empty strings so indexes remain stable.
func (r RoleConfig) RankIDs() []string {
	ids := make([]string, len(domain.RankOrder))
	for i, key := range domain.RankOrder {
		ids[i] = r.IDs[key]
	}
	return ids
}

// Addr returns the ops HTTP bind address.
func (o OpsConfig) Addr() string {
	return fmt.Sprintf("%s:%s", o.Host, o.Port)
}

// CloseCountdown returns the close countdown duration.
func (t TicketConfig) CloseCountdown() time.Duration {
	secs := t.CloseCountdownSecs
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
