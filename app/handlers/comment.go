package handlers

import (
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/app/render"
	"github.com/m3rciful/confessbot/confession"
	"github.com/m3rciful/confessbot/core/logger"
	"github.com/m3rciful/confessbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
)

// ViewComments renders the comment thread for a confession.
func (h *Handlers) ViewComments(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, "Malformed request.")
	}
	return h.showCommentThread(c, id, true)
}

// AddComment asks the user to type their comment.
func (h *Handlers) AddComment(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, "Malformed request.")
	}

	userID := c.Sender().ID
	h.FSM.SetTemp(userID, tempCommentConfID, id)
	h.FSM.SetState(userID, StateWritingComment)

	return tghelpers.SendMD(c, fmt.Sprintf(
		"✍️ Write your comment for confession #%d (up to %d characters). It will be posted anonymously.",
		id, confession.MaxCommentLen,
	), keyboards.CommentCancel())
}

// CommentsHint explains where comment threads live.
func (h *Handlers) CommentsHint(c tele.Context) error {
	return tghelpers.SendMD(c,
		"💬 To read or add comments, open *Browse Confessions*, pick a confession, and tap *View Comments*.",
		keyboards.Main())
}

// CommentCancel aborts comment writing.
func (h *Handlers) CommentCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.FSM.ClearState(userID)
	h.FSM.ClearTemp(userID, tempCommentConfID)
	return tghelpers.EditOrSendMD(c, "Comment cancelled.")
}

// CommentsBack returns from a thread to the browse view.
func (h *Handlers) CommentsBack(c tele.Context) error {
	if _, ok := h.browseIDs(c.Sender().ID); ok {
		return h.showBrowse(c)
	}
	return h.BrowseStart(c)
}

// ReceiveComment validates and stores the typed comment, then refreshes the
// comment count on the published channel post.
func (h *Handlers) ReceiveComment(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	text := c.Text()

	confID, ok := h.FSM.GetTempInt64(userID, tempCommentConfID)
	if !ok {
		h.FSM.Clear(userID)
		return tghelpers.SendMD(c, "Something went wrong, please open the confession again.", keyboards.Main())
	}

	if err := confession.ValidateCommentText(text); err != nil {
		var verr *confession.ValidationError
		if errors.As(err, &verr) {
			return tghelpers.SendMD(c, fmt.Sprintf(
				"Your comment is %d characters; it must be between %d and %d. Please try again:",
				verr.Len, verr.Min, verr.Max,
			), keyboards.CommentCancel())
		}
		return err
	}

	conf, err := h.Store.GetConfession(ctx, confID)
	if err != nil || conf.Status != confession.StatusApproved {
		h.FSM.ClearState(userID)
		h.FSM.ClearTemp(userID, tempCommentConfID)
		return tghelpers.SendMD(c, "That confession is no longer available.", keyboards.Main())
	}

	if _, err := h.Store.CreateComment(ctx, confID, userID, text); err != nil {
		logger.Error(ctx, "service.comments", "comment.store_failed",
			slog.Int64("confession_id", confID),
			slog.String("err", err.Error()),
		)
		h.FSM.ClearState(userID)
		h.FSM.ClearTemp(userID, tempCommentConfID)
		return tghelpers.SendMD(c, "Sorry, your comment could not be saved. Please try again later.", keyboards.Main())
	}

	logger.Info(ctx, "service.comments", "comment.created",
		slog.Int64("confession_id", confID),
	)

	h.refreshChannelPost(c, conf)

	h.FSM.ClearState(userID)
	h.FSM.ClearTemp(userID, tempCommentConfID)

	if err := tghelpers.SendText(c, "💬 Comment posted anonymously!"); err != nil {
		return err
	}
	return h.showCommentThread(c, confID, false)
}

// showCommentThread sends or edits the rendered thread for a confession.
func (h *Handlers) showCommentThread(c tele.Context, confessionID int64, edit bool) error {
	ctx := tghelpers.BuildContext(c)
	comments, err := h.Store.ListComments(ctx, confessionID)
	if err != nil {
		logger.Error(ctx, "service.comments", "thread.list_failed",
			slog.Int64("confession_id", confessionID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Loading comments failed; try again.")
	}

	text := render.CommentThread(confessionID, comments)
	markup := keyboards.CommentThread(confessionID)
	if edit {
		return tghelpers.EditOrSendMD(c, text, markup)
	}
	return tghelpers.SendMD(c, text, markup)
}

// refreshChannelPost re-renders the published post so its comment count stays
// live. Failures are logged and never surface to the commenter.
func (h *Handlers) refreshChannelPost(c tele.Context, conf *confession.Confession) {
	if !conf.ChannelMessageID.Valid {
		return
	}
	ctx := tghelpers.BuildContext(c)

	count, err := h.Store.CountComments(ctx, conf.ID)
	if err != nil {
		logger.Warn(ctx, "service.comments", "channel.count_failed",
			slog.Int64("confession_id", conf.ID),
			slog.String("err", err.Error()),
		)
		return
	}

	stored := tele.StoredMessage{
		MessageID: strconv.FormatInt(conf.ChannelMessageID.Int64, 10),
		ChatID:    h.ChannelID,
	}
	_, err = c.Bot().Edit(stored, render.ChannelPost(conf, count), &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: keyboards.ChannelPost(render.DeepLink(h.BotUsername, conf.ID)),
	})
	if err != nil {
		logger.Warn(ctx, "service.comments", "channel.refresh_failed",
			slog.Int64("confession_id", conf.ID),
			slog.Int64("channel_msg_id", conf.ChannelMessageID.Int64),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.Debug(ctx, "service.comments", "channel.refreshed",
		slog.Int64("confession_id", conf.ID),
		slog.Int("comments", count),
	)
}
