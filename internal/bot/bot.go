package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/DrunkenToast/buzzer-bot/internal/api"
	"github.com/DrunkenToast/buzzer-bot/internal/config"
	"github.com/DrunkenToast/buzzer-bot/internal/reminder"
	"github.com/DrunkenToast/buzzer-bot/internal/tokenizer"
)

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	api       *api.Client
	scheduler *reminder.Scheduler
	sweeper   *reminder.Sweeper

	// Immutable command table, built once at startup.
	commands []Command

	// Per-guild prefix cache in front of the API.
	prefixMu sync.RWMutex
	prefixes map[string]string
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents; message content is needed to tokenize commands
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	apiClient := api.NewClient(cfg.APIBaseURL)

	b := &Bot{
		config:    cfg,
		session:   session,
		api:       apiClient,
		scheduler: reminder.NewScheduler(apiClient, reminder.DateLayouts, cfg.FallbackTimezone),
		prefixes:  make(map[string]string),
	}
	b.commands = b.commandTable()

	// Register event handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Start the reminder sweeper
	interval := time.Duration(b.config.SweepIntervalSeconds) * time.Second
	b.sweeper = reminder.NewSweeper(b.api, b, interval)
	go b.sweeper.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the sweeper
	if b.sweeper != nil {
		b.sweeper.Stop()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleMessage tokenizes incoming messages and dispatches commands
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore the bot's own messages and other bots
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := b.guildPrefix(m.GuildID)
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	toks := tokenizer.Tokenize(m.Content, prefix)
	cmd := b.lookup(toks[0].Content)
	if cmd == nil {
		return
	}

	slog.Debug("Received command", "command", cmd.Name, "guild", m.GuildID, "user", m.Author.ID)
	cmd.Run(s, m, toks)
}

// guildPrefix returns the command prefix for a guild, consulting the cache
// first and the API on a miss. DMs always use the default prefix.
func (b *Bot) guildPrefix(guildID string) string {
	if guildID == "" {
		return b.config.DefaultPrefix
	}

	b.prefixMu.RLock()
	prefix, ok := b.prefixes[guildID]
	b.prefixMu.RUnlock()
	if ok {
		return prefix
	}

	prefix = b.config.DefaultPrefix
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := b.api.GuildConfig(ctx, guildID)
	if err != nil {
		// Leave the cache alone so the next message retries the lookup.
		slog.Warn("Failed to fetch guild config", "guild", guildID, "error", err)
		return prefix
	}
	if cfg != nil && cfg.Prefix != "" {
		prefix = cfg.Prefix
	}

	b.prefixMu.Lock()
	b.prefixes[guildID] = prefix
	b.prefixMu.Unlock()

	return prefix
}

// setGuildPrefix persists a guild's prefix and updates the cache.
func (b *Bot) setGuildPrefix(ctx context.Context, guildID, prefix string) error {
	if err := b.api.SetGuildPrefix(ctx, guildID, prefix); err != nil {
		return err
	}

	b.prefixMu.Lock()
	b.prefixes[guildID] = prefix
	b.prefixMu.Unlock()

	return nil
}

// SendToChannel implements reminder.Delivery.
func (b *Bot) SendToChannel(channelID, content string) error {
	_, err := b.session.ChannelMessageSend(channelID, content)
	return err
}

// SendToUser implements reminder.Delivery by opening (or reusing) the
// user's DM channel.
func (b *Bot) SendToUser(userID, content string) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = b.session.ChannelMessageSend(ch.ID, content)
	return err
}
