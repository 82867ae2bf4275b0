package confession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
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

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return NewStore(db)
}

func TestCreateConfessionStartsPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateConfession(ctx, 42, "Alex", "Friendship", "ten chars!")
	if err != nil {
		t.Fatalf("CreateConfession: %v", err)
	}

	conf, err := s.GetConfession(ctx, id)
	if err != nil {
		t.Fatalf("GetConfession: %v", err)
	}
	if conf.Status != StatusPending {
		t.Fatalf("status = %q, want %q", conf.Status, StatusPending)
	}
	if conf.ChannelMessageID.Valid {
		t.Fatalf("new confession has channel ref %d", conf.ChannelMessageID.Int64)
	}
	if conf.AuthorID != 42 || conf.Category != "Friendship" {
		t.Fatalf("row mismatch: %+v", conf)
	}
}

func TestGetConfessionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetConfession(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStatusIdempotentAndKeepsChannelRef(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateConfession(ctx, 1, "a", "Other", "long enough body")
	if err != nil {
		t.Fatalf("CreateConfession: %v", err)
	}

	msgID := int64(777)
	if err := s.SetStatus(ctx, id, StatusApproved, &msgID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Same transition again is a no-op, not an error.
	if err := s.SetStatus(ctx, id, StatusApproved, &msgID); err != nil {
		t.Fatalf("re-approve: %v", err)
	}

	// A nil ref must leave the stored channel message id untouched.
	if err := s.SetStatus(ctx, id, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	conf, err := s.GetConfession(ctx, id)
	if err != nil {
		t.Fatalf("GetConfession: %v", err)
	}
	if conf.Status != StatusRejected {
		t.Fatalf("status = %q, want rejected", conf.Status)
	}
	if !conf.ChannelMessageID.Valid || conf.ChannelMessageID.Int64 != 777 {
		t.Fatalf("channel ref lost on reject: %+v", conf.ChannelMessageID)
	}

	if err := s.SetStatus(ctx, 999, StatusApproved, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestListApprovedFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for _, cat := range []string{"Friendship", "Regrets", "Friendship"} {
		id, err := s.CreateConfession(ctx, 1, "a", cat, "long enough body")
		if err != nil {
			t.Fatalf("CreateConfession: %v", err)
		}
		ids = append(ids, id)
	}
	// Approve the first and third, leave the second pending.
	for _, id := range []int64{ids[0], ids[2]} {
		if err := s.SetStatus(ctx, id, StatusApproved, nil); err != nil {
			t.Fatalf("approve %d: %v", id, err)
		}
	}

	all, err := s.ListApproved(ctx, "")
	if err != nil {
		t.Fatalf("ListApproved(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("approved count = %d, want 2", len(all))
	}
	// Newest first.
	if all[0].ID != ids[2] || all[1].ID != ids[0] {
		t.Fatalf("order = [%d, %d], want [%d, %d]", all[0].ID, all[1].ID, ids[2], ids[0])
	}

	recent, err := s.ListApproved(ctx, CategoryRecent.Name)
	if err != nil {
		t.Fatalf("ListApproved(recent): %v", err)
	}
	if len(recent) != len(all) {
		t.Fatalf("recent sentinel filtered rows: %d != %d", len(recent), len(all))
	}

	friends, err := s.ListApproved(ctx, "Friendship")
	if err != nil {
		t.Fatalf("ListApproved(Friendship): %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("friendship count = %d, want 2", len(friends))
	}

	empty, err := s.ListApproved(ctx, "Regrets")
	if err != nil {
		t.Fatalf("ListApproved(Regrets): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("pending row leaked into approved list: %+v", empty)
	}
}

func TestListPendingPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := s.CreateConfession(ctx, int64(i), "a", "Other", "long enough body"); err != nil {
			t.Fatalf("CreateConfession: %v", err)
		}
	}

	first, err := s.ListPending(ctx, 5, 0)
	if err != nil {
		t.Fatalf("ListPending page 1: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("page 1 size = %d, want 5", len(first))
	}
	second, err := s.ListPending(ctx, 5, 5)
	if err != nil {
		t.Fatalf("ListPending page 2: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("page 2 size = %d, want 2", len(second))
	}
	if first[0].ID >= second[0].ID {
		t.Fatalf("pending queue not oldest-first: %d then %d", first[0].ID, second[0].ID)
	}

	n, err := s.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if n != 7 {
		t.Fatalf("pending count = %d, want 7", n)
	}
}

func TestCommentsOrderAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateConfession(ctx, 1, "a", "Other", "long enough body")
	if err != nil {
		t.Fatalf("CreateConfession: %v", err)
	}

	bodies := []string{"first", "second", "third"}
	for _, b := range bodies {
		if _, err := s.CreateComment(ctx, id, 7, b); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	list, err := s.ListComments(ctx, id)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != len(bodies) {
		t.Fatalf("comment count = %d, want %d", len(list), len(bodies))
	}
	for i, c := range list {
		if c.Body != bodies[i] {
			t.Fatalf("comment %d = %q, want %q", i, c.Body, bodies[i])
		}
	}

	n, err := s.CountComments(ctx, id)
	if err != nil {
		t.Fatalf("CountComments: %v", err)
	}
	if n != len(list) {
		t.Fatalf("count %d != listed %d", n, len(list))
	}

	none, err := s.ListComments(ctx, 999)
	if err != nil {
		t.Fatalf("ListComments(empty): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("comments leaked across confessions: %+v", none)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var approvedID int64
	for i := 0; i < 4; i++ {
		id, err := s.CreateConfession(ctx, 1, "a", "Other", "long enough body")
		if err != nil {
			t.Fatalf("CreateConfession: %v", err)
		}
		if i == 0 {
			approvedID = id
		}
	}
	if err := s.SetStatus(ctx, approvedID, StatusApproved, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.SetStatus(ctx, approvedID+1, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := s.CreateComment(ctx, approvedID, 2, "hi"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Total: 4, Pending: 2, Approved: 1, Rejected: 1, Comments: 1}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
}
