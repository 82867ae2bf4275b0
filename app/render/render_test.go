package render

import (
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/confessbot/confession"
)

func sampleConfession() *confession.Confession {
	return &confession.Confession{
		ID:        12,
		AuthorID:  42,
		Category:  "Love & Relationships",
		Body:      "something happened",
		Status:    confession.StatusApproved,
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestHashtag(t *testing.T) {
	cases := map[string]string{
		"Love & Relationships": "#Love_and_Relationships",
		"Academic Stress":      "#Academic_Stress",
		"Other":                "#Other",
	}
	for in, want := range cases {
		if got := Hashtag(in); got != want {
			t.Errorf("Hashtag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChannelPost(t *testing.T) {
	text := ChannelPost(sampleConfession(), 3)

	for _, want := range []string{
		"Confession from Anonymous #12",
		"something happened",
		"#Love_and_Relationships",
		"Comments: 💬 3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("channel post missing %q:\n%s", want, text)
		}
	}
}

func TestChannelPostEscapesBody(t *testing.T) {
	conf := sampleConfession()
	conf.Body = "my *secret* feelings_here"
	text := ChannelPost(conf, 0)
	if !strings.Contains(text, `\*secret\*`) || !strings.Contains(text, `feelings\_here`) {
		t.Fatalf("markdown metacharacters not escaped:\n%s", text)
	}
}

func TestBrowseViewPosition(t *testing.T) {
	text := BrowseView(sampleConfession(), 0, 5, 2)
	if !strings.Contains(text, "(1/5)") {
		t.Fatalf("zero-based index not shown as 1-based position:\n%s", text)
	}
	if !strings.Contains(text, "Mar 14, 2025") {
		t.Fatalf("creation date missing:\n%s", text)
	}
	if !strings.Contains(text, "💬 Comments: 2") {
		t.Fatalf("comment count missing:\n%s", text)
	}
}

func TestCommentThread(t *testing.T) {
	comments := []confession.Comment{
		{ID: 1, ConfessionID: 12, Body: "first", CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)},
		{ID: 2, ConfessionID: 12, Body: "second"},
	}
	text := CommentThread(12, comments)

	if !strings.Contains(text, "Anonymous #1") || !strings.Contains(text, "Anonymous #2") {
		t.Fatalf("positional labels missing:\n%s", text)
	}
	if strings.Index(text, "first") > strings.Index(text, "second") {
		t.Fatalf("comments out of posting order:\n%s", text)
	}
	if !strings.Contains(text, "10:00 Mar 14") {
		t.Fatalf("short timestamp missing:\n%s", text)
	}
	// Zero timestamp falls back to a relative label.
	if !strings.Contains(text, "just now") {
		t.Fatalf("zero-time fallback missing:\n%s", text)
	}
}

func TestCommentThreadEmpty(t *testing.T) {
	text := CommentThread(7, nil)
	if !strings.Contains(text, "No comments yet") {
		t.Fatalf("empty thread placeholder missing:\n%s", text)
	}
}

func TestAdminStatsApprovalRate(t *testing.T) {
	text := AdminStats(confession.Stats{Total: 10, Pending: 2, Approved: 6, Rejected: 2, Comments: 4})
	if !strings.Contains(text, "75.0%") {
		t.Fatalf("approval rate not computed over decided confessions:\n%s", text)
	}

	empty := AdminStats(confession.Stats{})
	if !strings.Contains(empty, "0.0%") {
		t.Fatalf("zero stats must not divide by zero:\n%s", empty)
	}
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("confessbot", 99)
	if link != "https://t.me/confessbot?start=viewconf_99" {
		t.Fatalf("deep link = %q", link)
	}
}
