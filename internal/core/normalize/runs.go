package normalize

// Squash collapses every run of one repeated rune to a single rune, "shiiiit" to "shit"
func Squash(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if n := len(out); n > 0 && out[n-1] == r {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// LongestRun is the length of the longest run of one repeated non space rune
func LongestRun(s string) int {
	best, cur := 0, 0
	prev := rune(-1)
	for _, r := range s {
		switch {
		case r == ' ':
			cur = 0
		case r == prev:
			cur++
		default:
			cur = 1
		}
		prev = r
		best = max(best, cur)
	}
	return best
}
