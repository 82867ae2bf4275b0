// Package keyboards builds every reply and inline keyboard the bot shows.
// Callback uniques and deep-link prefixes are declared here so handlers and
// keyboards can never drift apart.
package keyboards

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/confessbot/confession"
	"github.com/m3rciful/confessbot/core/telegram/keyboard"
)

// Callback uniques.
const (
	CBSubmitCategory = "submit_cat"
	CBSubmitCancel   = "submit_cancel"

	CBApprove = "approve"
	CBReject  = "reject"
	CBPend    = "pend"

	CBBrowseCategory = "browse_cat"
	CBBrowsePrev     = "browse_prev"
	CBBrowseNext     = "browse_next"
	CBBrowseBack     = "browse_back"

	CBViewComments  = "view_comments"
	CBAddComment    = "add_comment"
	CBCommentsBack  = "comments_back"
	CBCommentCancel = "comment_cancel"

	CBPendingPage = "pending_page"
	CBHowItWorks  = "how_it_works"
)

// Deep-link prefixes accepted as /start payloads.
const (
	DeepLinkView    = "viewconf_"
	DeepLinkDiscuss = "discuss_"
)

// Main menu reply-keyboard labels, routed as plain text.
const (
	BtnSubmit   = "📝 Submit Confession"
	BtnBrowse   = "📚 Browse Confessions"
	BtnComments = "💬 Comments"
	BtnHelp     = "❓ Help"
	BtnSettings = "⚙️ Settings"
)

// Main builds the persistent reply keyboard.
func Main() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnSubmit, BtnBrowse},
		[]string{BtnComments, BtnHelp},
		[]string{BtnSettings},
	)
}

// SubmitCategories lists submission categories, two per row, plus cancel.
func SubmitCategories() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(confession.Categories))
	for _, cat := range confession.Categories {
		btns = append(btns, keyboard.InlineBtn{Text: cat.Name, Unique: CBSubmitCategory, Data: cat.Key})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 2)
	cancel := keyboard.CancelButton(markup, CBSubmitCancel)
	markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{*cancel.Inline()})
	return markup
}

// BrowseCategories lists browse categories with the Recent shortcut on top.
func BrowseCategories() *tele.ReplyMarkup {
	btns := []keyboard.InlineBtn{
		{Text: "🕐 " + confession.CategoryRecent.Name, Unique: CBBrowseCategory, Data: confession.CategoryRecent.Key},
	}
	for _, cat := range confession.Categories {
		btns = append(btns, keyboard.InlineBtn{Text: cat.Name, Unique: CBBrowseCategory, Data: cat.Key})
	}
	return keyboard.InlineButtonsNPerRow(btns, 2)
}

// AdminDecision builds approve / reject / pending controls for one confession.
func AdminDecision(confessionID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(confessionID, 10)
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Approve", Unique: CBApprove, Data: id},
		{Text: "❌ Reject", Unique: CBReject, Data: id},
		{Text: "🕐 Pending", Unique: CBPend, Data: id},
	})
}

// BrowseNav builds the navigation row under a browse view. Prev/next buttons
// appear only when there is somewhere to go; a single-item list shows none.
func BrowseNav(confessionID int64, index, total int) *tele.ReplyMarkup {
	id := strconv.FormatInt(confessionID, 10)

	var nav []keyboard.InlineBtn
	if index > 0 {
		nav = append(nav, keyboard.InlineBtn{Text: "⬅️ Previous", Unique: CBBrowsePrev, Data: id})
	}
	if index < total-1 {
		nav = append(nav, keyboard.InlineBtn{Text: "➡️ Next", Unique: CBBrowseNext, Data: id})
	}

	rows := make([][]keyboard.InlineBtn, 0, 3)
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "💬 View Comments", Unique: CBViewComments, Data: id}},
		[]keyboard.InlineBtn{{Text: "🔙 Categories", Unique: CBBrowseBack, Data: ""}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

// CommentThread builds the controls under a rendered comment thread.
func CommentThread(confessionID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(confessionID, 10)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✍️ Add Comment", Unique: CBAddComment, Data: id}},
		[]keyboard.InlineBtn{{Text: "🔙 Back", Unique: CBCommentsBack, Data: id}},
	)
}

// CommentCancel offers a single cancel button while writing a comment.
func CommentCancel() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(CBCommentCancel)
}

// SubmitCancel offers a single cancel button while writing a confession.
func SubmitCancel() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(CBSubmitCancel)
}

// ChannelPost attaches the discuss deep link under a published confession.
func ChannelPost(deepLink string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btn := markup.URL("💬 Comment / Discuss", deepLink)
	markup.InlineKeyboard = [][]tele.InlineButton{{*btn.Inline()}}
	return markup
}

// PendingNav builds prev/next paging for the admin /pending queue.
// Offsets are absolute; a negative value means the page does not exist.
func PendingNav(prevOffset, nextOffset int) *tele.ReplyMarkup {
	var row []keyboard.InlineBtn
	if prevOffset >= 0 {
		row = append(row, keyboard.InlineBtn{Text: "⬅️ Prev", Unique: CBPendingPage, Data: strconv.Itoa(prevOffset)})
	}
	if nextOffset >= 0 {
		row = append(row, keyboard.InlineBtn{Text: "➡️ Next", Unique: CBPendingPage, Data: strconv.Itoa(nextOffset)})
	}
	if len(row) == 0 {
		return nil
	}
	return keyboard.InlineButtonsRows(row)
}

// HowItWorks offers the single inline help expansion on /start.
func HowItWorks() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "ℹ️ How it works", Unique: CBHowItWorks, Data: ""},
	})
}
