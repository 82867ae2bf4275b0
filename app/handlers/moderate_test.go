package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/confessbot/app/keyboards"
	"github.com/m3rciful/confessbot/confession"
)

const testSchema = `
CREATE TABLE confessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	author_id INTEGER NOT NULL,
	author_name TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	body TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	channel_message_id INTEGER,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	confession_id INTEGER NOT NULL REFERENCES confessions(id),
	author_id INTEGER NOT NULL,
	body TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func newHandlerStore(t *testing.T) *confession.Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return confession.NewStore(db)
}

// stubContext satisfies the handful of tele.Context methods the handlers
// under test touch; everything else panics via the nil embedded interface.
type stubContext struct {
	tele.Context
	sender *tele.User
	text   string
	sent   []string
}

func (s *stubContext) Sender() *tele.User { return s.sender }
func (s *stubContext) Text() string       { return s.text }

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	if text, ok := what.(string); ok {
		s.sent = append(s.sent, text)
	}
	return nil
}

func (s *stubContext) sentContaining(sub string) bool {
	for _, m := range s.sent {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestModerationRefusalIsVisibleAndLeavesStatus(t *testing.T) {
	store := newHandlerStore(t)
	id, err := store.CreateConfession(context.Background(), 1, "a", "Other", "long enough body")
	if err != nil {
		t.Fatalf("CreateConfession: %v", err)
	}

	h := &Handlers{Store: store, AdminIDs: []int64{10}}

	decisions := map[string]func(tele.Context) error{
		"approve": h.Approve,
		"reject":  h.Reject,
		"pend":    h.Pend,
	}
	for name, decide := range decisions {
		t.Run(name, func(t *testing.T) {
			c := &stubContext{sender: &tele.User{ID: 99}}
			if err := decide(c); err != nil {
				t.Fatalf("%s returned error: %v", name, err)
			}
			if !c.sentContaining("Moderators only") {
				t.Fatalf("no visible refusal, sent: %q", c.sent)
			}

			conf, err := store.GetConfession(context.Background(), id)
			if err != nil {
				t.Fatalf("GetConfession: %v", err)
			}
			if conf.Status != confession.StatusPending {
				t.Fatalf("status changed by unauthorized %s: %q", name, conf.Status)
			}
		})
	}
}

func TestPendingPageRefusesNonAdmin(t *testing.T) {
	h := &Handlers{Store: newHandlerStore(t), AdminIDs: []int64{10}}
	c := &stubContext{sender: &tele.User{ID: 99}}

	if err := h.PendingPage(c); err != nil {
		t.Fatalf("PendingPage: %v", err)
	}
	if !c.sentContaining("Moderators only") {
		t.Fatalf("no visible refusal, sent: %q", c.sent)
	}
}

func TestMenuTextRoutesCommentsButton(t *testing.T) {
	h := &Handlers{Store: newHandlerStore(t)}
	c := &stubContext{sender: &tele.User{ID: 1}, text: keyboards.BtnComments}

	if err := h.MenuText(c); err != nil {
		t.Fatalf("MenuText: %v", err)
	}
	if !c.sentContaining("View Comments") {
		t.Fatalf("comments hint not sent, got: %q", c.sent)
	}
}
