package detector

import "testing"

func TestEnclosingWord(t *testing.T) {
	cases := []struct {
		s          string
		start, end int
		word       string
		alone      bool
	}{
		{"the scunthorpe problem", 5, 9, "scunthorpe", false},
		{"oh shit.", 3, 7, "shit", true},
		{"snake_case_word", 6, 10, "snake_case_word", false},
		{"crème-brûlée", 0, 6, "crème", true},
		{"damn", 0, 4, "damn", true},
	}
	for _, tc := range cases {
		if got := enclosingWord(tc.s, tc.start, tc.end); got != tc.word {
			t.Fatalf("enclosingWord(%q) = %q, want %q", tc.s, got, tc.word)
		}
		if got := standalone(tc.s, tc.start, tc.end); got != tc.alone {
			t.Fatalf("standalone(%q) = %v", tc.s, got)
		}
	}
}
