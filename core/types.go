package core

import "context"

//go:generate mockgen -source=types.go -destination=../mocks/mock_platform.go -package=mocks

type ChatMessage struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// IsPrivate reports whether the message was sent outside a guild channel.
func (m ChatMessage) IsPrivate() bool {
	return m.GuildID == ""
}

// MessageEdit is what an update event guarantees to carry. The content of an
// update may be partial, so handlers fetch the full message by id.
type MessageEdit struct {
	ID        string
	ChannelID string
}

type Platform interface {
	// SendReply posts text as a reply to original that pings its author and
	// returns the new message id.
	SendReply(ctx context.Context, original ChatMessage, text string) (string, error)
	FetchMessage(ctx context.Context, channelID string, messageID string) (ChatMessage, error)
	DeleteMessage(ctx context.Context, channelID string, messageID string) error
}
