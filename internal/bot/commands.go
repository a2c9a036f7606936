package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/DrunkenToast/buzzer-bot/internal/reminder"
	"github.com/DrunkenToast/buzzer-bot/internal/tokenizer"
)

// Command is one entry in the bot's command table.
type Command struct {
	Name        string
	Aliases     []string
	Category    string
	Description string
	Run         func(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token)
}

// Timezones suggested by the timezone command. Any valid IANA zone is
// accepted; these are just the ones shown to the user.
var suggestedTimezones = []string{
	"Europe/Brussels",
	"Australia/Melbourne",
	"America/Detroit",
}

// displayFormats is the user-facing rendering of the accepted date formats.
var displayFormats = []string{"d/m/y h:mm", "d-m-y h:mm"}

var channelMentionPattern = regexp.MustCompile(`<#(\d+)>`)

var diceNotationPattern = regexp.MustCompile(`^(\d+)d(\d+)$`)

// commandTable builds the bot's immutable command table. It is called once
// from New; nothing mutates the table afterwards.
func (b *Bot) commandTable() []Command {
	return []Command{
		{
			Name:        "help",
			Category:    "misc",
			Description: "List all commands",
			Run:         b.handleHelp,
		},
		{
			Name:        "prefix",
			Category:    "config",
			Description: "Change the command prefix for this server",
			Run:         b.handlePrefix,
		},
		{
			Name:        "timezone",
			Aliases:     []string{"tz"},
			Category:    "config",
			Description: "Show or set your timezone for reminders",
			Run:         b.handleTimezone,
		},
		{
			Name:        "remind",
			Aliases:     []string{"reminder"},
			Category:    "reminders",
			Description: "Set a reminder, e.g. remind 1/5/2021 8:00 buy milk",
			Run:         b.handleRemind,
		},
		{
			Name:        "reminders",
			Category:    "reminders",
			Description: "List your reminders",
			Run:         b.handleReminders,
		},
		{
			Name:        "unremind",
			Aliases:     []string{"delreminder"},
			Category:    "reminders",
			Description: "Delete one of your reminders by its list number",
			Run:         b.handleUnremind,
		},
		{
			Name:        "coinflip",
			Aliases:     []string{"coin"},
			Category:    "games",
			Description: "Flip a coin, optionally betting on heads or tails",
			Run:         b.handleCoinflip,
		},
		{
			Name:        "roll",
			Aliases:     []string{"dice"},
			Category:    "games",
			Description: "Roll dice, e.g. roll 2d6",
			Run:         b.handleRoll,
		},
	}
}

// lookup finds a command by name or alias.
func (b *Bot) lookup(name string) *Command {
	for i := range b.commands {
		cmd := &b.commands[i]
		if cmd.Name == name {
			return cmd
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd
			}
		}
	}
	return nil
}

func (b *Bot) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	var sb strings.Builder
	for _, cmd := range b.commands {
		sb.WriteString(fmt.Sprintf("`%s` — %s\n", cmd.Name, cmd.Description))
	}
	sendEmbed(s, m.ChannelID, infoEmbed("Commands", sb.String()))
}

func (b *Bot) handlePrefix(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	if m.GuildID == "" {
		sendEmbed(s, m.ChannelID, errorEmbed("This is a server only command."))
		return
	}
	if len(toks) < 2 || toks[1].Content == "" {
		sendEmbed(s, m.ChannelID, errorEmbed("Usage: `prefix <newPrefix>`"))
		return
	}

	newPrefix := toks[1].Content

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.setGuildPrefix(ctx, m.GuildID, newPrefix); err != nil {
		slog.Error("Failed to set prefix", "guild", m.GuildID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not save the new prefix, please try again."))
		return
	}

	sendEmbed(s, m.ChannelID, successEmbed("Prefix changed", fmt.Sprintf("The prefix is now `%s`", newPrefix)))
}

func (b *Bot) handleTimezone(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(toks) < 2 || toks[1].Content == "" {
		zone, err := b.scheduler.Timezone(ctx, m.Author.ID)
		if err != nil {
			slog.Error("Failed to get timezone", "user", m.Author.ID, "error", err)
			sendEmbed(s, m.ChannelID, errorEmbed("Could not look up your timezone, please try again."))
			return
		}
		desc := fmt.Sprintf("Your reminders resolve in `%s`.\nSet another with `timezone <zone>`, for example:\n`%s`",
			zone, strings.Join(suggestedTimezones, "`, `"))
		sendEmbed(s, m.ChannelID, infoEmbed("Timezone", desc))
		return
	}

	zone := toks[1].Content
	if err := b.scheduler.SetTimezone(ctx, m.Author.ID, zone); err != nil {
		if errors.Is(err, reminder.ErrUnknownZone) {
			desc := fmt.Sprintf("`%s` is not a timezone I know. Try one of:\n`%s`",
				zone, strings.Join(suggestedTimezones, "`, `"))
			sendEmbed(s, m.ChannelID, errorEmbed(desc))
			return
		}
		slog.Error("Failed to set timezone", "user", m.Author.ID, "zone", zone, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not save your timezone, please try again."))
		return
	}

	sendEmbed(s, m.ChannelID, successEmbed("Timezone set", fmt.Sprintf("Your timezone is now `%s`", zone)))
}

// reminderArgs is the parsed argument shape of the remind command.
type reminderArgs struct {
	dateTok   string
	timeTok   string
	channelID string
	content   string
}

// parseReminderArgs extracts the date/time pair, an optional channel
// mention and the message content from the command tokens. The date and
// time must be adjacent tokens; the tokenizer classifies them
// independently and the pairing check lives here.
func parseReminderArgs(toks []tokenizer.Token) (reminderArgs, bool) {
	var args reminderArgs
	var content []string
	found := false

	for i := 1; i < len(toks); i++ {
		tok := toks[i]

		if !found && tok.Kind == tokenizer.Date &&
			i+1 < len(toks) && toks[i+1].Kind == tokenizer.Time {
			args.dateTok = tok.Content
			args.timeTok = toks[i+1].Content
			found = true
			i++ // consume the time token as well
			continue
		}

		if args.channelID == "" && tok.Kind == tokenizer.Channel {
			if match := channelMentionPattern.FindStringSubmatch(tok.Content); match != nil {
				args.channelID = match[1]
				continue
			}
		}

		content = append(content, tok.Content)
	}

	args.content = strings.Join(content, " ")
	return args, found
}

func (b *Bot) handleRemind(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	args, ok := parseReminderArgs(toks)
	if !ok {
		sendEmbed(s, m.ChannelID, formatHelpEmbed())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fireAt, err := b.scheduler.Resolve(ctx, args.dateTok, args.timeTok, m.Author.ID)
	if err != nil {
		if errors.Is(err, reminder.ErrNoFormat) {
			sendEmbed(s, m.ChannelID, formatHelpEmbed())
			return
		}
		slog.Error("Failed to resolve reminder time", "user", m.Author.ID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not resolve that date and time, please try again."))
		return
	}

	r := &reminder.Reminder{
		Content:   args.content,
		FireAt:    fireAt,
		CreatedBy: m.Author.ID,
	}
	switch {
	case args.channelID != "" && m.GuildID != "":
		r.Target = reminder.Target{Channel: args.channelID, Guild: m.GuildID}
	case m.GuildID != "":
		r.Target = reminder.Target{Channel: m.ChannelID, Guild: m.GuildID}
	default:
		r.Target = reminder.Target{User: m.Author.ID}
	}

	if err := b.scheduler.Create(ctx, r); err != nil {
		slog.Error("Failed to create reminder", "user", m.Author.ID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not save your reminder, please try again."))
		return
	}

	sendEmbed(s, m.ChannelID, successEmbed("Reminder set",
		fmt.Sprintf("I will remind you at <t:%d>", fireAt.Unix())))
}

func (b *Bot) handleReminders(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rs, err := b.scheduler.List(ctx, m.Author.ID)
	if err != nil {
		slog.Error("Failed to list reminders", "user", m.Author.ID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not fetch your reminders, please try again."))
		return
	}

	if len(rs) == 0 {
		sendEmbed(s, m.ChannelID, infoEmbed("Reminders", "You have no reminders.\nSet one with the `remind` command!"))
		return
	}

	var sb strings.Builder
	for i, r := range rs {
		sb.WriteString(fmt.Sprintf("%d. <t:%d> %s\n", i+1, r.FireAt.Unix(), r.Content))
	}
	sb.WriteString("\nDelete one with `unremind <number>`")
	sendEmbed(s, m.ChannelID, infoEmbed("Reminders", sb.String()))
}

func (b *Bot) handleUnremind(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	if len(toks) < 2 || toks[1].Kind != tokenizer.Number {
		sendEmbed(s, m.ChannelID, errorEmbed("Usage: `unremind <number>` (see `reminders` for the numbers)"))
		return
	}

	index, err := strconv.Atoi(toks[1].Content)
	if err != nil || index < 1 {
		sendEmbed(s, m.ChannelID, errorEmbed("That is not a valid reminder number."))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rs, err := b.scheduler.List(ctx, m.Author.ID)
	if err != nil {
		slog.Error("Failed to list reminders", "user", m.Author.ID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not fetch your reminders, please try again."))
		return
	}
	if index > len(rs) {
		sendEmbed(s, m.ChannelID, errorEmbed(fmt.Sprintf("You only have %d reminder(s).", len(rs))))
		return
	}

	target := rs[index-1]
	if err := b.scheduler.Delete(ctx, target.ID); err != nil {
		slog.Error("Failed to delete reminder", "id", target.ID, "error", err)
		sendEmbed(s, m.ChannelID, errorEmbed("Could not delete that reminder, please try again."))
		return
	}

	sendEmbed(s, m.ChannelID, successEmbed("Reminder deleted",
		fmt.Sprintf("Deleted: %s", target.Content)))
}

func (b *Bot) handleCoinflip(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	side := sideNone
	if len(toks) > 1 {
		switch strings.ToLower(toks[1].Content) {
		case "heads", "head":
			side = sideHeads
		case "tails", "tail":
			side = sideTails
		}
	}
	sendEmbed(s, m.ChannelID, coinflipEmbed(side))
}

func (b *Bot) handleRoll(s *discordgo.Session, m *discordgo.MessageCreate, toks []tokenizer.Token) {
	amount, faces := 1, 6

	if len(toks) > 1 {
		if match := diceNotationPattern.FindStringSubmatch(toks[1].Content); match != nil {
			amount, _ = strconv.Atoi(match[1])
			faces, _ = strconv.Atoi(match[2])
		} else if toks[1].Kind == tokenizer.Number {
			faces, _ = strconv.Atoi(toks[1].Content)
			if len(toks) > 2 && toks[2].Kind == tokenizer.Number {
				amount = faces
				faces, _ = strconv.Atoi(toks[2].Content)
			}
		}
	}

	if amount < 1 || faces < 1 || amount > 100 {
		sendEmbed(s, m.ChannelID, errorEmbed("Usage: `roll <amount>d<faces>`, e.g. `roll 2d6`"))
		return
	}

	sendEmbed(s, m.ChannelID, diceRollEmbed(amount, faces))
}

// formatHelpEmbed lists the accepted date/time formats.
func formatHelpEmbed() *discordgo.MessageEmbed {
	return errorEmbed(fmt.Sprintf(
		"I could not find a valid date and time.\nSupported formats:\n`%s`",
		strings.Join(displayFormats, "`, `")))
}

func sendEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("Failed to send embed", "channel", channelID, "error", err)
	}
}
