package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/app/render"
	"github.com/m3rciful/confessbot/core/logger"
	"github.com/m3rciful/confessbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
)

const pendingPageSize = 5

// AdminStats shows moderation totals.
func (h *Handlers) AdminStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := h.Store.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "service.confessions", "stats.failed",
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Collecting stats failed; try again.")
	}
	return tghelpers.SendMD(c, render.AdminStats(st))
}

// AdminPending opens the first page of the pending queue.
func (h *Handlers) AdminPending(c tele.Context) error {
	return h.sendPendingPage(c, 0)
}

// PendingPage pages through the queue; the payload is an absolute offset.
func (h *Handlers) PendingPage(c tele.Context) error {
	if !h.isAdmin(c.Sender().ID) {
		return tghelpers.SendText(c, "Moderators only.")
	}
	offset, err := callbacks.PayloadInt(c)
	if err != nil || offset < 0 {
		offset = 0
	}
	return h.sendPendingPage(c, offset)
}

// sendPendingPage sends one review message per pending confession followed by
// a pager. The queue is filtered on status at read time, so re-pended items
// show up again automatically.
func (h *Handlers) sendPendingPage(c tele.Context, offset int) error {
	ctx := tghelpers.BuildContext(c)

	total, err := h.Store.CountPending(ctx)
	if err != nil {
		logger.Error(ctx, "service.confessions", "pending.count_failed",
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Loading the pending queue failed; try again.")
	}
	if total == 0 {
		return tghelpers.SendText(c, "The pending queue is empty. 🎉")
	}
	if offset >= total {
		offset = (total - 1) / pendingPageSize * pendingPageSize
	}

	list, err := h.Store.ListPending(ctx, pendingPageSize, offset)
	if err != nil {
		logger.Error(ctx, "service.confessions", "pending.list_failed",
			slog.Int("offset", offset),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Loading the pending queue failed; try again.")
	}

	for i := range list {
		conf := &list[i]
		if err := tghelpers.SendMD(c, render.AdminReview(conf), keyboards.AdminDecision(conf.ID)); err != nil {
			return err
		}
	}

	prev, next := -1, -1
	if offset > 0 {
		prev = offset - pendingPageSize
		if prev < 0 {
			prev = 0
		}
	}
	if offset+len(list) < total {
		next = offset + pendingPageSize
	}

	pager := fmt.Sprintf("🕐 Pending %d–%d of %d", offset+1, offset+len(list), total)
	if markup := keyboards.PendingNav(prev, next); markup != nil {
		return tghelpers.SendMD(c, pager, markup)
	}
	return tghelpers.SendMD(c, pager)
}
