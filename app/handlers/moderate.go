package handlers

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/app/render"
	"github.com/m3rciful/confessbot/confession"
	"github.com/m3rciful/confessbot/core/logger"
	"github.com/m3rciful/confessbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
)

// Approve publishes the confession to the channel and marks it approved.
// Publishing happens first; if it fails the status is left untouched.
func (h *Handlers) Approve(c tele.Context) error {
	conf, err := h.moderationTarget(c)
	if conf == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)

	count, err := h.Store.CountComments(ctx, conf.ID)
	if err != nil {
		logger.Warn(ctx, "service.confessions", "approve.count_failed",
			slog.Int64("confession_id", conf.ID),
			slog.String("err", err.Error()),
		)
		count = 0
	}

	text := render.ChannelPost(conf, count)
	markup := keyboards.ChannelPost(render.DeepLink(h.BotUsername, conf.ID))
	msg, err := c.Bot().Send(tele.ChatID(h.ChannelID), text, &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		logger.Error(ctx, "service.confessions", "approve.publish_failed",
			slog.Int64("confession_id", conf.ID),
			slog.Int64("admin_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, fmt.Sprintf("Publishing confession #%d to the channel failed; nothing was changed. Try again.", conf.ID))
	}

	msgID := int64(msg.ID)
	if err := h.Store.SetStatus(ctx, conf.ID, confession.StatusApproved, &msgID); err != nil {
		logger.Error(ctx, "service.confessions", "approve.store_failed",
			slog.Int64("confession_id", conf.ID),
			slog.Int64("channel_msg_id", msgID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, fmt.Sprintf("Confession #%d was published but its status could not be saved.", conf.ID))
	}

	logger.Info(ctx, "service.confessions", "approve.published",
		slog.Int64("confession_id", conf.ID),
		slog.Int64("admin_id", c.Sender().ID),
		slog.Int64("channel_msg_id", msgID),
	)

	h.notifyAuthor(c, conf, "🎉 Your confession #%d was approved and published to the channel!")
	return tghelpers.EditMD(c, render.AdminDecision(conf, confession.StatusApproved))
}

// Reject marks the confession rejected and tells the author.
func (h *Handlers) Reject(c tele.Context) error {
	conf, err := h.moderationTarget(c)
	if conf == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)

	if err := h.Store.SetStatus(ctx, conf.ID, confession.StatusRejected, nil); err != nil {
		logger.Error(ctx, "service.confessions", "reject.store_failed",
			slog.Int64("confession_id", conf.ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Saving the decision failed; nothing was changed.")
	}

	logger.Info(ctx, "service.confessions", "reject.saved",
		slog.Int64("confession_id", conf.ID),
		slog.Int64("admin_id", c.Sender().ID),
	)

	h.notifyAuthor(c, conf, "😔 Your confession #%d was not approved this time.")
	return tghelpers.EditMD(c, render.AdminDecision(conf, confession.StatusRejected))
}

// Pend returns the confession to the pending queue without notifying anyone.
func (h *Handlers) Pend(c tele.Context) error {
	conf, err := h.moderationTarget(c)
	if conf == nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)

	if err := h.Store.SetStatus(ctx, conf.ID, confession.StatusPending, nil); err != nil {
		logger.Error(ctx, "service.confessions", "pend.store_failed",
			slog.Int64("confession_id", conf.ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Saving the decision failed; nothing was changed.")
	}

	logger.Info(ctx, "service.confessions", "pend.saved",
		slog.Int64("confession_id", conf.ID),
		slog.Int64("admin_id", c.Sender().ID),
	)
	return tghelpers.EditMD(c, render.AdminDecision(conf, confession.StatusPending))
}

// moderationTarget authorizes the caller and loads the confession from the
// callback payload. A nil confession means the reply was already sent.
func (h *Handlers) moderationTarget(c tele.Context) (*confession.Confession, error) {
	// The shared callback router has already answered the query, so a second
	// callback answer would be dropped; the refusal must be a message.
	if !h.isAdmin(c.Sender().ID) {
		return nil, tghelpers.SendText(c, "Moderators only.")
	}

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil, tghelpers.SendText(c, "Malformed moderation request.")
	}

	ctx := tghelpers.BuildContext(c)
	conf, err := h.Store.GetConfession(ctx, id)
	if err != nil {
		if errors.Is(err, confession.ErrNotFound) {
			return nil, tghelpers.SendText(c, fmt.Sprintf("Confession #%d no longer exists.", id))
		}
		logger.Error(ctx, "service.confessions", "moderate.load_failed",
			slog.Int64("confession_id", id),
			slog.String("err", err.Error()),
		)
		return nil, tghelpers.SendText(c, "Loading the confession failed; try again.")
	}
	return conf, nil
}

// notifyAuthor delivers a decision notice on a best-effort basis.
func (h *Handlers) notifyAuthor(c tele.Context, conf *confession.Confession, format string) {
	_, err := c.Bot().Send(&tele.User{ID: conf.AuthorID}, fmt.Sprintf(format, conf.ID))
	if err != nil {
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "service.confessions", "moderate.author_notify_failed",
			slog.Int64("confession_id", conf.ID),
			slog.String("err", err.Error()),
		)
	}
}
