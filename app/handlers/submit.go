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

// SubmitStart opens the submission flow with the category keyboard.
func (h *Handlers) SubmitStart(c tele.Context) error {
	userID := c.Sender().ID
	h.FSM.Clear(userID)
	h.FSM.SetState(userID, StateSelectingCategory)
	return tghelpers.SendMD(c, "🏷 *Pick a category for your confession:*", keyboards.SubmitCategories())
}

// SubmitCategory handles the chosen category and asks for the text.
func (h *Handlers) SubmitCategory(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	cat, ok := confession.CategoryByKey(key)
	if !ok || cat.Key == confession.CategoryRecent.Key {
		return tghelpers.EditOrSendMD(c, "That category is not available. Pick another one:", keyboards.SubmitCategories())
	}

	userID := c.Sender().ID
	h.FSM.SetTemp(userID, tempCategory, cat.Name)
	h.FSM.SetState(userID, StateWritingConfession)

	prompt := fmt.Sprintf(
		"✍️ *%s*\n\nNow write your confession. Between %d and %d characters. Your identity stays hidden.",
		cat.Name, confession.MinConfessionLen, confession.MaxConfessionLen,
	)
	return tghelpers.EditOrSendMD(c, prompt, keyboards.SubmitCancel())
}

// SubmitCancel aborts the submission flow from the inline cancel button.
func (h *Handlers) SubmitCancel(c tele.Context) error {
	h.FSM.Clear(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, "Submission cancelled.")
}

// remindCategoryChoice nudges users who type while a category is expected.
func (h *Handlers) remindCategoryChoice(c tele.Context) error {
	return tghelpers.SendMD(c, "Please pick a category first:", keyboards.SubmitCategories())
}

// ReceiveConfession validates and stores the confession text, then fans the
// review request out to every moderator.
func (h *Handlers) ReceiveConfession(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)
	text := c.Text()

	if err := confession.ValidateConfessionText(text); err != nil {
		var verr *confession.ValidationError
		if errors.As(err, &verr) {
			return tghelpers.SendMD(c, fmt.Sprintf(
				"Your confession is %d characters; it must be between %d and %d. Please try again:",
				verr.Len, verr.Min, verr.Max,
			), keyboards.SubmitCancel())
		}
		return err
	}

	category, _ := h.FSM.GetTemp(userID, tempCategory)
	catName, _ := category.(string)
	if catName == "" {
		h.FSM.Clear(userID)
		return tghelpers.SendMD(c, "Something went wrong, please start over.", keyboards.Main())
	}

	authorName := displayName(c.Sender())
	id, err := h.Store.CreateConfession(ctx, userID, authorName, catName, text)
	if err != nil {
		logger.Error(ctx, "service.confessions", "submit.store_failed",
			slog.String("err", err.Error()),
		)
		h.FSM.Clear(userID)
		return tghelpers.SendMD(c, "Sorry, something went wrong and your confession was not submitted. Please try again later.", keyboards.Main())
	}

	conf, err := h.Store.GetConfession(ctx, id)
	if err != nil {
		logger.Error(ctx, "service.confessions", "submit.reload_failed",
			slog.Int64("confession_id", id),
			slog.String("err", err.Error()),
		)
	} else {
		h.notifyAdmins(c, conf)
	}

	logger.Info(ctx, "service.confessions", "submit.created",
		slog.Int64("confession_id", id),
		slog.String("category", catName),
	)

	h.FSM.Clear(userID)
	return tghelpers.SendMD(c, fmt.Sprintf(
		"✅ Confession #%d submitted! A moderator will review it shortly.", id,
	), keyboards.Main())
}

// notifyAdmins sends the review message to every moderator. A failure for one
// admin is logged and does not stop delivery to the rest.
func (h *Handlers) notifyAdmins(c tele.Context, conf *confession.Confession) {
	ctx := tghelpers.BuildContext(c)
	text := render.AdminReview(conf)
	markup := keyboards.AdminDecision(conf.ID)

	delivered := 0
	for _, adminID := range h.AdminIDs {
		_, err := c.Bot().Send(&tele.User{ID: adminID}, text, &tele.SendOptions{
			ParseMode:   tele.ModeMarkdown,
			ReplyMarkup: markup,
		})
		if err != nil {
			logger.Warn(ctx, "service.confessions", "submit.admin_notify_failed",
				slog.Int64("confession_id", conf.ID),
				slog.Int64("admin_id", adminID),
				slog.String("err", err.Error()),
			)
			continue
		}
		delivered++
	}

	logger.Info(ctx, "service.confessions", "submit.admins_notified",
		slog.Int64("confession_id", conf.ID),
		slog.Int("delivered", delivered),
		slog.Int("admins", len(h.AdminIDs)),
	)
}

func displayName(u *tele.User) string {
	if u == nil {
		return "unknown"
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = "unknown"
	}
	return name
}
