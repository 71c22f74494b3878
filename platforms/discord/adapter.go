package discord

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"cdnpls/core"
)

// Discord rejects message content longer than this many characters.
const maxMessageLength = 2000

var _ core.Platform = (*DiscordAdapter)(nil)

type DiscordAdapter struct {
	Session *discordgo.Session
	Router  *core.Router
}

func NewDiscordAdapter(token string) (*DiscordAdapter, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return &DiscordAdapter{
		Session: dg,
	}, nil
}

// Start routes message events to router and opens the gateway connection.
// The adapter itself is usually router's Platform.
func (da *DiscordAdapter) Start(ctx context.Context, router *core.Router) error {
	da.Router = router
	da.Session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		da.handleCreate(ctx, m)
	})
	da.Session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageUpdate) {
		da.handleUpdate(ctx, m)
	})

	if err := da.Session.Open(); err != nil {
		return fmt.Errorf("error opening discord connection: %w", err)
	}

	u, err := da.Session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error fetching self user: %w", err)
	}

	slog.Info("discord adapter started", slog.String("user", u.Username), slog.String("user_id", u.ID))
	return nil
}

func (da *DiscordAdapter) Close() error {
	return da.Session.Close()
}

func (da *DiscordAdapter) handleCreate(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Message == nil {
		return
	}
	go da.Router.HandleCreate(ctx, toChatMessage(m.Message))
}

func (da *DiscordAdapter) handleUpdate(ctx context.Context, m *discordgo.MessageUpdate) {
	edit, ok := toMessageEdit(m)
	if !ok {
		return
	}
	go da.Router.HandleEdit(ctx, edit)
}

func toChatMessage(m *discordgo.Message) core.ChatMessage {
	msg := core.ChatMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorBot = m.Author.Bot
	}
	return msg
}

// Update events may carry a partial message; only the ids are relied on.
func toMessageEdit(m *discordgo.MessageUpdate) (core.MessageEdit, bool) {
	if m == nil || m.Message == nil || m.ID == "" || m.ChannelID == "" {
		return core.MessageEdit{}, false
	}
	return core.MessageEdit{ID: m.ID, ChannelID: m.ChannelID}, true
}

// truncate caps text at maxMessageLength characters, cutting on a rune boundary.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	return string([]rune(text)[:maxMessageLength-3]) + "..."
}

func (da *DiscordAdapter) SendReply(ctx context.Context, original core.ChatMessage, text string) (string, error) {
	ref := &discordgo.MessageReference{
		MessageID: original.ID,
		ChannelID: original.ChannelID,
		GuildID:   original.GuildID,
	}

	reply, err := da.Session.ChannelMessageSendComplex(original.ChannelID, &discordgo.MessageSend{
		Content:   truncate(text),
		Reference: ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			RepliedUser: true,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return reply.ID, nil
}

func (da *DiscordAdapter) FetchMessage(ctx context.Context, channelID string, messageID string) (core.ChatMessage, error) {
	m, err := da.Session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return core.ChatMessage{}, err
	}
	return toChatMessage(m), nil
}

func (da *DiscordAdapter) DeleteMessage(ctx context.Context, channelID string, messageID string) error {
	return da.Session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}
