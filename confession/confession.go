package confession

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status tracks the moderation lifecycle of a confession.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Text length bounds enforced before anything reaches the store.
const (
	MinConfessionLen = 10
	MaxConfessionLen = 1000
	MinCommentLen    = 1
	MaxCommentLen    = 500
)

// ErrNotFound is returned when a confession or comment id resolves to no row.
var ErrNotFound = errors.New("confession: not found")

// ValidationError reports user text that violates the configured bounds.
type ValidationError struct {
	Field string
	Len   int
	Min   int
	Max   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s length %d out of bounds [%d, %d]", e.Field, e.Len, e.Min, e.Max)
}

// Code implements the error-code hook used by handler summary logs.
func (e *ValidationError) Code() string { return "VALIDATION" }

// Confession is a single anonymous submission.
type Confession struct {
	ID               int64         `db:"id"`
	AuthorID         int64         `db:"author_id"`
	AuthorName       string        `db:"author_name"`
	Category         string        `db:"category"`
	Body             string        `db:"body"`
	Status           Status        `db:"status"`
	ChannelMessageID sql.NullInt64 `db:"channel_message_id"`
	CreatedAt        time.Time     `db:"created_at"`
}

// Comment is an anonymous reply attached to a confession.
type Comment struct {
	ID           int64     `db:"id"`
	ConfessionID int64     `db:"confession_id"`
	AuthorID     int64     `db:"author_id"`
	Body         string    `db:"body"`
	CreatedAt    time.Time `db:"created_at"`
}

// Category is one of the fixed submission categories.
type Category struct {
	Name string
	Key  string
}

// CategoryRecent is a browse-only sentinel meaning "all categories, newest first".
var CategoryRecent = Category{Name: "Recent", Key: "recent"}

// Categories lists the submission categories in display order.
var Categories = []Category{
	{Name: "Love & Relationships", Key: "relationship"},
	{Name: "Friendship", Key: "friendship"},
	{Name: "Academic Stress", Key: "campus"},
	{Name: "Regrets", Key: "general"},
	{Name: "Achievements", Key: "achievements"},
	{Name: "Fear & Anxiety", Key: "vent"},
	{Name: "Other", Key: "other"},
}

// CategoryByKey resolves a short callback key to its category.
// The recent sentinel resolves too, so browse callbacks share one lookup.
func CategoryByKey(key string) (Category, bool) {
	if key == CategoryRecent.Key {
		return CategoryRecent, true
	}
	for _, c := range Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// ValidateConfessionText checks submission text against the confession bounds.
func ValidateConfessionText(text string) error {
	if n := len([]rune(text)); n < MinConfessionLen || n > MaxConfessionLen {
		return &ValidationError{Field: "confession", Len: n, Min: MinConfessionLen, Max: MaxConfessionLen}
	}
	return nil
}

// ValidateCommentText checks comment text against the comment bounds.
func ValidateCommentText(text string) error {
	if n := len([]rune(text)); n < MinCommentLen || n > MaxCommentLen {
		return &ValidationError{Field: "comment", Len: n, Min: MinCommentLen, Max: MaxCommentLen}
	}
	return nil
}
