// Package handlers implements the confession bot behaviour on top of the
// shared registry, FSM, and sender helpers.
package handlers

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/confession"
	tg "github.com/m3rciful/confessbot/core/telegram"
	"github.com/m3rciful/confessbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
	"github.com/m3rciful/confessbot/core/telegram/state"
)

// Conversation states.
const (
	StateSelectingCategory state.State = "selecting_category"
	StateWritingConfession state.State = "writing_confession"
	StateWritingComment    state.State = "writing_comment"
)

// Session temp keys.
const (
	tempCategory      = "confess_category"
	tempBrowseIDs     = "browse_ids"
	tempBrowseCursor  = "browse_cursor"
	tempCommentConfID = "comment_confession_id"
)

// Handlers carries the dependencies shared by every handler.
type Handlers struct {
	Store       *confession.Store
	FSM         state.Manager
	ChannelID   int64
	AdminIDs    []int64
	BotUsername string
}

// Register wires commands, callbacks, fallbacks, and FSM state handlers.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Start the bot and show the menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.Help,
		Description: "How the bot works",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel,
		Description: "Cancel the current action",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.AdminStats,
		Description: "Moderation statistics",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/pending", commands.Command{
		Handler:     h.AdminPending,
		Description: "Review the pending queue",
		AdminOnly:   true,
	})

	_ = reg.RegisterCallback(keyboards.CBSubmitCategory, h.SubmitCategory)
	_ = reg.RegisterCallback(keyboards.CBSubmitCancel, h.SubmitCancel)

	_ = reg.RegisterCallback(keyboards.CBApprove, h.Approve)
	_ = reg.RegisterCallback(keyboards.CBReject, h.Reject)
	_ = reg.RegisterCallback(keyboards.CBPend, h.Pend)
	_ = reg.RegisterCallback(keyboards.CBPendingPage, h.PendingPage)

	_ = reg.RegisterCallback(keyboards.CBBrowseCategory, h.BrowseCategory)
	_ = reg.RegisterCallback(keyboards.CBBrowsePrev, h.BrowsePrev)
	_ = reg.RegisterCallback(keyboards.CBBrowseNext, h.BrowseNext)
	_ = reg.RegisterCallback(keyboards.CBBrowseBack, h.BrowseBack)

	_ = reg.RegisterCallback(keyboards.CBViewComments, h.ViewComments)
	_ = reg.RegisterCallback(keyboards.CBAddComment, h.AddComment)
	_ = reg.RegisterCallback(keyboards.CBCommentsBack, h.CommentsBack)
	_ = reg.RegisterCallback(keyboards.CBCommentCancel, h.CommentCancel)

	_ = reg.RegisterCallback(keyboards.CBHowItWorks, h.HowItWorks)

	reg.SetTextFallback(h.MenuText)

	state.RegisterHandler(StateSelectingCategory, h.remindCategoryChoice)
	state.RegisterHandler(StateWritingConfession, h.ReceiveConfession)
	state.RegisterHandler(StateWritingComment, h.ReceiveComment)
}

func (h *Handlers) isAdmin(userID int64) bool {
	for _, id := range h.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AdminRefused answers a non-admin invoking an admin-only command.
func (h *Handlers) AdminRefused(c tele.Context) error {
	return tghelpers.SendText(c, "This command is available to moderators only.")
}

// UnknownText gives a gentle hint outside of any conversation.
func (h *Handlers) UnknownText(c tele.Context) error {
	return tghelpers.SendMD(c, "I didn't catch that. Use the menu below or /help.", keyboards.Main())
}

// MenuText routes the persistent reply-keyboard buttons.
func (h *Handlers) MenuText(c tele.Context) error {
	switch c.Text() {
	case keyboards.BtnSubmit:
		return h.SubmitStart(c)
	case keyboards.BtnBrowse:
		return h.BrowseStart(c)
	case keyboards.BtnComments:
		return h.CommentsHint(c)
	case keyboards.BtnHelp:
		return h.Help(c)
	case keyboards.BtnSettings:
		return h.Settings(c)
	}
	return h.UnknownText(c)
}

// clampCursor keeps a browse cursor inside [0, total-1] with no wraparound.
func clampCursor(cursor, total int) int {
	if total <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor > total-1 {
		return total - 1
	}
	return cursor
}
