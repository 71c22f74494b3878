package core

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cdnpls/telemetry"
)

const (
	replyHeader = "**✨ Fixed your links!**"
	replyFooter = "🍿 Please update the link(s) in your message and I'll delete this one :)\n" +
		"⁉ What is this?: <https://sexnine.xyz/whycdn>"
)

// Router reacts to message events: it replies to messages carrying broken
// links and retracts the reply once the author edits the links away.
//
// A message id with an entry in Store is awaiting a fix; one without is not
// tracked. HandleCreate is the only way an entry is created.
type Router struct {
	Platform Platform
	Store    *CorrelationStore
}

func NewRouter(platform Platform, store *CorrelationStore) *Router {
	return &Router{
		Platform: platform,
		Store:    store,
	}
}

// FormatReply builds the correction reply for matches.
func FormatReply(matches []LinkMatch) string {
	var b strings.Builder
	b.WriteString(replyHeader)
	for _, m := range matches {
		b.WriteString("\n")
		b.WriteString(m.Fixed)
	}
	b.WriteString("\n\n")
	b.WriteString(replyFooter)
	return b.String()
}

func (r *Router) HandleCreate(ctx context.Context, msg ChatMessage) {
	defer recoverEvent("create", msg.ID)

	if msg.AuthorBot || msg.IsPrivate() {
		return
	}

	matches := Rewrite(msg.Content)
	if len(matches) == 0 {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "router.create",
		attribute.String("message_id", msg.ID),
		attribute.Int("links", len(matches)),
	)
	defer span.End()

	for _, m := range matches {
		slog.Info("found broken link", slog.String("message_id", msg.ID), slog.String("link", m.Original))
	}
	telemetry.Add(telemetry.LinksFixed, len(matches))

	replyID, err := r.Platform.SendReply(ctx, msg, FormatReply(matches))
	if err != nil {
		telemetry.Inc(telemetry.ReplyFailures)
		telemetry.RecordError(span, err)
		slog.Error("error replying to user",
			slog.String("message_id", msg.ID),
			slog.String("channel_id", msg.ChannelID),
			slog.Any("err", err))
		return
	}

	if r.Store.Insert(msg.ID, replyID) {
		telemetry.AdjustTracked(1)
	}
	telemetry.Inc(telemetry.RepliesSent)
}

func (r *Router) HandleEdit(ctx context.Context, edit MessageEdit) {
	defer recoverEvent("edit", edit.ID)

	replyID, ok := r.Store.Take(edit.ID)
	if !ok {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "router.edit",
		attribute.String("message_id", edit.ID),
		attribute.String("reply_id", replyID),
	)
	defer span.End()

	msg, err := r.Platform.FetchMessage(ctx, edit.ChannelID, edit.ID)
	if err != nil {
		telemetry.Inc(telemetry.FetchFailures)
		telemetry.RecordError(span, err)
		slog.Error("failed to fetch message",
			slog.String("message_id", edit.ID),
			slog.String("channel_id", edit.ChannelID),
			slog.Any("err", err))
		return
	}

	if HasBrokenLink(msg.Content) {
		slog.Debug("message still has broken links", slog.String("message_id", edit.ID))
		return
	}

	// Another edit of the same message may have got here first.
	if !r.Store.Resolve(edit.ID, replyID) {
		return
	}
	telemetry.AdjustTracked(-1)

	if err := r.Platform.DeleteMessage(ctx, edit.ChannelID, replyID); err != nil {
		telemetry.Inc(telemetry.DeleteFailures)
		telemetry.RecordError(span, err)
		slog.Error("error while deleting message",
			slog.String("message_id", edit.ID),
			slog.String("reply_id", replyID),
			slog.Any("err", err))
		return
	}

	telemetry.Inc(telemetry.Retractions)
	slog.Info("retracted reply", slog.String("message_id", edit.ID), slog.String("reply_id", replyID))
}

func recoverEvent(kind string, messageID string) {
	if r := recover(); r != nil {
		slog.Error("panic while handling message event",
			slog.String("event", kind),
			slog.String("message_id", messageID),
			slog.Any("panic", r))
	}
}
