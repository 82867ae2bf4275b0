package handlers

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/confessbot/app/keyboards"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
)

const welcomeText = "🤫 *Welcome to the Confession Bot!*\n\n" +
	"Share what's on your mind, completely anonymously. " +
	"Approved confessions are published to the channel where anyone can read and discuss them.\n\n" +
	"Use the menu below to get started."

const helpText = "❓ *How it works*\n\n" +
	"1. Tap *Submit Confession* and pick a category.\n" +
	"2. Write your confession (10–1000 characters). Your identity is never published.\n" +
	"3. A moderator reviews it. Once approved it appears in the channel.\n" +
	"4. Browse confessions and leave anonymous comments right here.\n\n" +
	"/cancel aborts whatever you are in the middle of."

// Start greets the user, or jumps straight to a confession via deep link.
func (h *Handlers) Start(c tele.Context) error {
	h.FSM.Clear(c.Sender().ID)

	if msg := c.Message(); msg != nil {
		if kind, id, ok := parseDeepLink(msg.Payload); ok {
			return h.openDeepLink(c, kind, id)
		}
	}

	if err := tghelpers.SendMD(c, welcomeText, keyboards.Main()); err != nil {
		return err
	}
	return tghelpers.SendMD(c, "New here?", keyboards.HowItWorks())
}

// Help shows the usage summary.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendMD(c, helpText, keyboards.Main())
}

// HowItWorks expands the inline help under the welcome message.
func (h *Handlers) HowItWorks(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, helpText)
}

// Cancel aborts any in-progress conversation.
func (h *Handlers) Cancel(c tele.Context) error {
	userID := c.Sender().ID
	if !h.FSM.InProgress(userID) {
		return tghelpers.SendText(c, "Nothing to cancel.")
	}
	h.FSM.Clear(userID)
	return tghelpers.SendMD(c, "Cancelled. Back to the menu.", keyboards.Main())
}

// Settings is a placeholder until per-user preferences exist.
func (h *Handlers) Settings(c tele.Context) error {
	return tghelpers.SendMD(c, "⚙️ Nothing to configure yet. Notifications about your confessions are always on.", keyboards.Main())
}

// parseDeepLink recognizes viewconf_<id> and discuss_<id> /start payloads.
func parseDeepLink(payload string) (kind string, id int64, ok bool) {
	payload = strings.TrimSpace(payload)
	for _, prefix := range []string{keyboards.DeepLinkView, keyboards.DeepLinkDiscuss} {
		if !strings.HasPrefix(payload, prefix) {
			continue
		}
		raw := strings.TrimPrefix(payload, prefix)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return "", 0, false
		}
		return strings.TrimSuffix(prefix, "_"), n, true
	}
	return "", 0, false
}
