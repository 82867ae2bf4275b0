package confession

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateConfessionTextBounds(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"below_min", strings.Repeat("a", 9), true},
		{"at_min", strings.Repeat("a", 10), false},
		{"at_max", strings.Repeat("a", 1000), false},
		{"above_max", strings.Repeat("a", 1001), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfessionText(tc.text)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateConfessionText(len=%d): err=%v, wantErr=%v", len(tc.text), err, tc.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if verr.Min != MinConfessionLen || verr.Max != MaxConfessionLen {
					t.Fatalf("bounds in error = [%d, %d], want [%d, %d]", verr.Min, verr.Max, MinConfessionLen, MaxConfessionLen)
				}
			}
		})
	}
}

func TestValidateConfessionTextCountsRunes(t *testing.T) {
	// 10 multibyte runes must pass even though the byte length exceeds 10.
	text := strings.Repeat("я", 10)
	if err := ValidateConfessionText(text); err != nil {
		t.Fatalf("rune-length text rejected: %v", err)
	}
}

func TestValidateCommentTextBounds(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"at_min", "a", false},
		{"at_max", strings.Repeat("a", 500), false},
		{"above_max", strings.Repeat("a", 501), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCommentText(tc.text)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateCommentText(len=%d): err=%v, wantErr=%v", len(tc.text), err, tc.wantErr)
			}
		})
	}
}

func TestCategoryByKey(t *testing.T) {
	for _, c := range Categories {
		got, ok := CategoryByKey(c.Key)
		if !ok || got.Name != c.Name {
			t.Fatalf("CategoryByKey(%q) = %+v, %v; want %+v", c.Key, got, ok, c)
		}
	}

	if got, ok := CategoryByKey("recent"); !ok || got.Name != CategoryRecent.Name {
		t.Fatalf("recent sentinel not resolvable: %+v, %v", got, ok)
	}

	if _, ok := CategoryByKey("nope"); ok {
		t.Fatal("unknown key resolved")
	}
}

func TestValidationErrorMessageNamesBounds(t *testing.T) {
	err := ValidateCommentText(strings.Repeat("a", 501))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"comment", "501", "1", "500"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not name %q", msg, want)
		}
	}
}
