package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a *b* _c_ [d]", MarkdownV1, "")
	if err != nil {
		t.Fatalf("EscapeMarkdown: %v", err)
	}
	want := `a \*b\* \_c\_ \[d]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("hi! (a-b) #1.", MarkdownV2, "")
	if err != nil {
		t.Fatalf("EscapeMarkdown: %v", err)
	}
	want := `hi\! \(a\-b\) \#1\.`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
