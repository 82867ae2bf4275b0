package handlers

import "testing"

func TestClampCursor(t *testing.T) {
	cases := []struct {
		name   string
		cursor int
		total  int
		want   int
	}{
		{"negative", -1, 5, 0},
		{"zero", 0, 5, 0},
		{"inside", 3, 5, 3},
		{"last", 4, 5, 4},
		{"past_end", 5, 5, 4},
		{"far_past_end", 42, 5, 4},
		{"empty_list", 2, 0, 0},
		{"single_item", 1, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampCursor(tc.cursor, tc.total); got != tc.want {
				t.Fatalf("clampCursor(%d, %d) = %d, want %d", tc.cursor, tc.total, got, tc.want)
			}
		})
	}
}

func TestParseDeepLink(t *testing.T) {
	cases := []struct {
		payload  string
		wantKind string
		wantID   int64
		wantOK   bool
	}{
		{"viewconf_12", "viewconf", 12, true},
		{"discuss_7", "discuss", 7, true},
		{" viewconf_3 ", "viewconf", 3, true},
		{"viewconf_", "", 0, false},
		{"viewconf_abc", "", 0, false},
		{"viewconf_-5", "", 0, false},
		{"viewconf_0", "", 0, false},
		{"discuss12", "", 0, false},
		{"", "", 0, false},
		{"ref_12", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.payload, func(t *testing.T) {
			kind, id, ok := parseDeepLink(tc.payload)
			if kind != tc.wantKind || id != tc.wantID || ok != tc.wantOK {
				t.Fatalf("parseDeepLink(%q) = (%q, %d, %v), want (%q, %d, %v)",
					tc.payload, kind, id, ok, tc.wantKind, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	h := &Handlers{AdminIDs: []int64{10, 20}}
	if !h.isAdmin(10) || !h.isAdmin(20) {
		t.Fatal("listed admin not recognized")
	}
	if h.isAdmin(30) || h.isAdmin(0) {
		t.Fatal("unlisted user passed the allow-list")
	}
}
