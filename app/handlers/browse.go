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

// BrowseStart shows the browse category keyboard.
func (h *Handlers) BrowseStart(c tele.Context) error {
	h.FSM.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, "📚 *What would you like to read?*", keyboards.BrowseCategories())
}

// BrowseCategory loads the approved list for the chosen category.
func (h *Handlers) BrowseCategory(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	cat, ok := confession.CategoryByKey(key)
	if !ok {
		return tghelpers.EditOrSendMD(c, "Unknown category. Pick one:", keyboards.BrowseCategories())
	}

	ctx := tghelpers.BuildContext(c)
	list, err := h.Store.ListApproved(ctx, cat.Name)
	if err != nil {
		logger.Error(ctx, "service.confessions", "browse.list_failed",
			slog.String("category", cat.Name),
			slog.String("err", err.Error()),
		)
		return tghelpers.EditOrSendMD(c, "Loading confessions failed; try again.", keyboards.BrowseCategories())
	}
	if len(list) == 0 {
		return tghelpers.EditOrSendMD(c, fmt.Sprintf(
			"No confessions in *%s* yet. Pick another category:", cat.Name,
		), keyboards.BrowseCategories())
	}

	ids := make([]int64, len(list))
	for i, conf := range list {
		ids[i] = conf.ID
	}

	userID := c.Sender().ID
	h.FSM.SetTemp(userID, tempBrowseIDs, ids)
	h.FSM.SetTemp(userID, tempBrowseCursor, 0)

	return h.showBrowse(c)
}

// BrowsePrev moves the cursor one confession back.
func (h *Handlers) BrowsePrev(c tele.Context) error {
	return h.moveCursor(c, -1)
}

// BrowseNext moves the cursor one confession forward.
func (h *Handlers) BrowseNext(c tele.Context) error {
	return h.moveCursor(c, +1)
}

// BrowseBack returns to category selection.
func (h *Handlers) BrowseBack(c tele.Context) error {
	userID := c.Sender().ID
	h.FSM.ClearTemp(userID, tempBrowseIDs)
	h.FSM.ClearTemp(userID, tempBrowseCursor)
	return tghelpers.EditOrSendMD(c, "📚 *What would you like to read?*", keyboards.BrowseCategories())
}

func (h *Handlers) moveCursor(c tele.Context, delta int) error {
	userID := c.Sender().ID
	ids, ok := h.browseIDs(userID)
	if !ok {
		return h.BrowseStart(c)
	}

	cursor := h.browseCursor(userID)
	cursor = clampCursor(cursor+delta, len(ids))
	h.FSM.SetTemp(userID, tempBrowseCursor, cursor)
	return h.showBrowse(c)
}

// showBrowse renders the confession under the current cursor.
func (h *Handlers) showBrowse(c tele.Context) error {
	userID := c.Sender().ID
	ids, ok := h.browseIDs(userID)
	if !ok {
		return h.BrowseStart(c)
	}
	cursor := clampCursor(h.browseCursor(userID), len(ids))
	id := ids[cursor]

	ctx := tghelpers.BuildContext(c)
	conf, err := h.Store.GetConfession(ctx, id)
	if err != nil {
		if errors.Is(err, confession.ErrNotFound) {
			return tghelpers.EditOrSendMD(c, "This confession is no longer available.", keyboards.BrowseCategories())
		}
		logger.Error(ctx, "service.confessions", "browse.load_failed",
			slog.Int64("confession_id", id),
			slog.String("err", err.Error()),
		)
		return tghelpers.EditOrSendMD(c, "Loading the confession failed; try again.")
	}

	count, err := h.Store.CountComments(ctx, id)
	if err != nil {
		logger.Warn(ctx, "service.comments", "browse.count_failed",
			slog.Int64("confession_id", id),
			slog.String("err", err.Error()),
		)
		count = 0
	}

	text := render.BrowseView(conf, cursor, len(ids), count)
	return tghelpers.EditOrSendMD(c, text, keyboards.BrowseNav(conf.ID, cursor, len(ids)))
}

// openDeepLink seeds a single-item browse session for an approved confession.
func (h *Handlers) openDeepLink(c tele.Context, kind string, id int64) error {
	ctx := tghelpers.BuildContext(c)
	conf, err := h.Store.GetConfession(ctx, id)
	if err != nil {
		if errors.Is(err, confession.ErrNotFound) {
			return tghelpers.SendMD(c, "That confession is not available.", keyboards.Main())
		}
		logger.Error(ctx, "service.confessions", "deeplink.load_failed",
			slog.Int64("confession_id", id),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, "Loading the confession failed; try again.", keyboards.Main())
	}
	if conf.Status != confession.StatusApproved {
		return tghelpers.SendMD(c, "That confession is not available.", keyboards.Main())
	}

	userID := c.Sender().ID
	h.FSM.SetTemp(userID, tempBrowseIDs, []int64{conf.ID})
	h.FSM.SetTemp(userID, tempBrowseCursor, 0)

	if kind == "discuss" {
		return h.showCommentThread(c, conf.ID, false)
	}
	return h.showBrowse(c)
}

func (h *Handlers) browseIDs(userID int64) ([]int64, bool) {
	v, ok := h.FSM.GetTemp(userID, tempBrowseIDs)
	if !ok {
		return nil, false
	}
	ids, ok := v.([]int64)
	if !ok || len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func (h *Handlers) browseCursor(userID int64) int {
	v, ok := h.FSM.GetTemp(userID, tempBrowseCursor)
	if !ok {
		return 0
	}
	cursor, _ := v.(int)
	return cursor
}
