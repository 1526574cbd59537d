package normalize

import "testing"

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity ascii", "hello world", "hello world"},
		{"utf8 repair drops invalid bytes", string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), "foo bar"},
		{"case fold", "ShIt", "shit"},
		{"remove zero-widths", "s\u200Bh\u200Dit", "shit"},
		{"remove combining marks", "s\u0336hit", "shit"},
		{"width fold fullwidth", "ＳＨＩＴ bot", "shit bot"},
		{"nfkc ligature", "oﬃce", "office"},
		{"leet inside words", "5h!t 3lite f@ce h3ll0", "shit elite face hello"},
		{"numbers stay numbers", "order 1001 costs 25", "order 1001 costs 25"},
		{"bang ends a sentence", "damn!!!", "damn!!!"},
		{"collapse whitespace", "a\t\tb\nc   d", "a b c d"},
		{"combined", "  ZW\u200B N\u200C B\uFEFF S  \t\n", "zw n b s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := map[string]string{
		"  Buyer@Example.COM ": "buyer@example.com",
		"ＡＢ@example.com":       "ab@example.com",
		"":                     "",
	}
	for in, want := range tests {
		if got := Email(in); got != want {
			t.Errorf("Email(%q) = %q want %q", in, got, want)
		}
	}
}

func TestRuns(t *testing.T) {
	cases := []struct {
		in      string
		squash  string
		longest int
	}{
		{"", "", 0},
		{"s.h.i.t shiiiit", "s.h.i.t shit", 4},
		{"soooo   good", "so god", 4},
		{"aa  aa", "a a", 2},
		{"!!!!!", "!", 5},
	}
	for _, tc := range cases {
		if got := Squash(tc.in); got != tc.squash {
			t.Fatalf("Squash(%q) = %q", tc.in, got)
		}
		if got := LongestRun(tc.in); got != tc.longest {
			t.Fatalf("LongestRun(%q) = %d", tc.in, got)
		}
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"ACME Lamp\tx2\r\n":         "ACME Lamp\tx2\r\n",
		"Jane\x00 Doe\x7f":          "Jane Doe",
		"caf\xc3\xa9 \x85next\xff":  "café next",
		"bell\x07 and \u009b csi":   "bell and  csi",
		"already clean, ünïcödé ok": "already clean, ünïcödé ok",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
