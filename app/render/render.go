// Package render builds the Markdown message texts shown in the channel,
// the browse view, and comment threads. Functions are pure; comment counts
// are always passed in by the caller.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/confession"
	"github.com/m3rciful/confessbot/core/telegram/format"
)

// escape sanitizes user-controlled text for Markdown parse mode.
func escape(text string) string {
	out, err := format.EscapeMarkdown(text, format.MarkdownV1, "")
	if err != nil {
		return text
	}
	return out
}

// Hashtag converts a category name into a channel hashtag.
func Hashtag(category string) string {
	tag := strings.ReplaceAll(category, "&", "and")
	tag = strings.ReplaceAll(tag, " ", "_")
	tag = strings.ReplaceAll(tag, "__", "_")
	return "#" + tag
}

// ChannelPost renders the public channel message for an approved confession.
func ChannelPost(conf *confession.Confession, commentCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💬 *Confession from Anonymous #%d*\n\n", conf.ID)
	b.WriteString(escape(conf.Body))
	b.WriteString("\n\n")
	b.WriteString(Hashtag(conf.Category))
	fmt.Fprintf(&b, "\n\nComments: 💬 %d", commentCount)
	return b.String()
}

// BrowseView renders one confession inside the in-bot browse flow.
// index is zero-based; the visible position is index+1.
func BrowseView(conf *confession.Confession, index, total, commentCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 *Confession #%d* (%d/%d)\n", conf.ID, index+1, total)
	fmt.Fprintf(&b, "🏷 %s\n", escape(conf.Category))
	fmt.Fprintf(&b, "📅 %s\n\n", conf.CreatedAt.Format("Jan 02, 2006"))
	b.WriteString(escape(conf.Body))
	fmt.Fprintf(&b, "\n\n💬 Comments: %d", commentCount)
	return b.String()
}

// CommentThread renders the full comment list of a confession. Commenter
// labels are positional ("Anonymous #1" is the first comment in the thread),
// derived at render time so they stay stable across re-renders.
func CommentThread(confessionID int64, comments []confession.Comment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💬 *Comments for Confession #%d*\n\n", confessionID)
	if len(comments) == 0 {
		b.WriteString("No comments yet. Be the first to share your thoughts!")
		return b.String()
	}
	for i, c := range comments {
		fmt.Fprintf(&b, "👤 *Anonymous #%d* · %s\n", i+1, shortTime(c.CreatedAt))
		b.WriteString(escape(c.Body))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// AdminReview renders the moderation message sent to each admin.
func AdminReview(conf *confession.Confession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 *Confession #%d awaiting review*\n", conf.ID)
	fmt.Fprintf(&b, "🏷 %s\n", escape(conf.Category))
	fmt.Fprintf(&b, "👤 %s (id %d)\n", escape(conf.AuthorName), conf.AuthorID)
	fmt.Fprintf(&b, "📅 %s\n\n", conf.CreatedAt.Format("Jan 02, 2006 15:04"))
	b.WriteString(escape(conf.Body))
	return b.String()
}

// AdminDecision renders the edited admin message after a moderation decision.
func AdminDecision(conf *confession.Confession, decision confession.Status) string {
	var icon string
	switch decision {
	case confession.StatusApproved:
		icon = "✅ Approved"
	case confession.StatusRejected:
		icon = "❌ Rejected"
	default:
		icon = "🕐 Back to pending"
	}
	return fmt.Sprintf("%s — Confession #%d\n\n%s", icon, conf.ID, escape(conf.Body))
}

// AdminStats renders the /stats overview.
func AdminStats(st confession.Stats) string {
	rate := 0.0
	if decided := st.Approved + st.Rejected; decided > 0 {
		rate = float64(st.Approved) / float64(decided) * 100
	}
	var b strings.Builder
	b.WriteString("📊 *Confession stats*\n\n")
	fmt.Fprintf(&b, "Total: %d\n", st.Total)
	fmt.Fprintf(&b, "🕐 Pending: %d\n", st.Pending)
	fmt.Fprintf(&b, "✅ Approved: %d\n", st.Approved)
	fmt.Fprintf(&b, "❌ Rejected: %d\n", st.Rejected)
	fmt.Fprintf(&b, "💬 Comments: %d\n", st.Comments)
	fmt.Fprintf(&b, "Approval rate: %.1f%%", rate)
	return b.String()
}

// DeepLink builds the t.me start link that opens a confession inside the bot.
func DeepLink(botUsername string, confessionID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, keyboards.DeepLinkView, confessionID)
}

func shortTime(t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	return t.Format("15:04 Jan 02")
}
