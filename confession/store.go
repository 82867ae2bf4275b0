package confession

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store persists confessions and comments.
//
// Queries are written with `?` placeholders and rebound per driver, so the
// same store runs against postgres in production and sqlite in tests.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open sqlx handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Stats aggregates moderation counters for the admin overview.
type Stats struct {
	Total    int `db:"total"`
	Pending  int `db:"pending"`
	Approved int `db:"approved"`
	Rejected int `db:"rejected"`
	Comments int `db:"comments"`
}

// CreateConfession inserts a new submission with pending status and returns its id.
func (s *Store) CreateConfession(ctx context.Context, authorID int64, authorName, category, body string) (int64, error) {
	q := s.db.Rebind(`
		INSERT INTO confessions (author_id, author_name, category, body, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	var id int64
	if err := s.db.GetContext(ctx, &id, q, authorID, authorName, category, body, StatusPending); err != nil {
		return 0, fmt.Errorf("create confession: %w", err)
	}
	return id, nil
}

// GetConfession fetches a confession by id, returning ErrNotFound when absent.
func (s *Store) GetConfession(ctx context.Context, id int64) (*Confession, error) {
	q := s.db.Rebind(`
		SELECT id, author_id, author_name, category, body, status, channel_message_id, created_at
		FROM confessions WHERE id = ?`)
	var conf Confession
	if err := s.db.GetContext(ctx, &conf, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get confession %d: %w", id, err)
	}
	return &conf, nil
}

// SetStatus transitions a confession. A nil channelMessageID leaves the stored
// channel reference untouched, so reject and re-pend keep the last published id.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status, channelMessageID *int64) error {
	var (
		q    string
		args []any
	)
	if channelMessageID != nil {
		q = `UPDATE confessions SET status = ?, channel_message_id = ? WHERE id = ?`
		args = []any{status, *channelMessageID, id}
	} else {
		q = `UPDATE confessions SET status = ? WHERE id = ?`
		args = []any{status, id}
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return fmt.Errorf("set status %s on confession %d: %w", status, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListApproved returns approved confessions, newest first. An empty category
// or the recent sentinel selects all categories.
func (s *Store) ListApproved(ctx context.Context, category string) ([]Confession, error) {
	q := `
		SELECT id, author_id, author_name, category, body, status, channel_message_id, created_at
		FROM confessions WHERE status = ?`
	args := []any{StatusApproved}
	if category != "" && category != CategoryRecent.Name {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY id DESC`

	var out []Confession
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list approved: %w", err)
	}
	return out, nil
}

// ListPending returns the oldest pending confessions for the admin queue.
func (s *Store) ListPending(ctx context.Context, limit, offset int) ([]Confession, error) {
	q := s.db.Rebind(`
		SELECT id, author_id, author_name, category, body, status, channel_message_id, created_at
		FROM confessions WHERE status = ?
		ORDER BY id ASC LIMIT ? OFFSET ?`)
	var out []Confession
	if err := s.db.SelectContext(ctx, &out, q, StatusPending, limit, offset); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return out, nil
}

// CountPending returns the size of the pending queue.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	q := s.db.Rebind(`SELECT COUNT(*) FROM confessions WHERE status = ?`)
	var n int
	if err := s.db.GetContext(ctx, &n, q, StatusPending); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

// CreateComment attaches an anonymous comment to a confession.
func (s *Store) CreateComment(ctx context.Context, confessionID, authorID int64, body string) (int64, error) {
	q := s.db.Rebind(`
		INSERT INTO comments (confession_id, author_id, body)
		VALUES (?, ?, ?)
		RETURNING id`)
	var id int64
	if err := s.db.GetContext(ctx, &id, q, confessionID, authorID, body); err != nil {
		return 0, fmt.Errorf("create comment on confession %d: %w", confessionID, err)
	}
	return id, nil
}

// ListComments returns the comment thread in posting order.
func (s *Store) ListComments(ctx context.Context, confessionID int64) ([]Comment, error) {
	q := s.db.Rebind(`
		SELECT id, confession_id, author_id, body, created_at
		FROM comments WHERE confession_id = ?
		ORDER BY created_at ASC, id ASC`)
	var out []Comment
	if err := s.db.SelectContext(ctx, &out, q, confessionID); err != nil {
		return nil, fmt.Errorf("list comments for confession %d: %w", confessionID, err)
	}
	return out, nil
}

// CountComments returns the number of comments on a confession.
func (s *Store) CountComments(ctx context.Context, confessionID int64) (int, error) {
	q := s.db.Rebind(`SELECT COUNT(*) FROM comments WHERE confession_id = ?`)
	var n int
	if err := s.db.GetContext(ctx, &n, q, confessionID); err != nil {
		return 0, fmt.Errorf("count comments for confession %d: %w", confessionID, err)
	}
	return n, nil
}

// Stats collects moderation totals for the admin /stats command.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	q := s.db.Rebind(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = ?) AS pending,
			COUNT(*) FILTER (WHERE status = ?) AS approved,
			COUNT(*) FILTER (WHERE status = ?) AS rejected
		FROM confessions`)
	if err := s.db.GetContext(ctx, &st, q, StatusPending, StatusApproved, StatusRejected); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if err := s.db.GetContext(ctx, &st.Comments, `SELECT COUNT(*) FROM comments`); err != nil {
		return Stats{}, fmt.Errorf("stats comments: %w", err)
	}
	return st, nil
}
