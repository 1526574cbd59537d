// Package normalize provides a deterministic text normalizer for moderation
// Pipeline order
// 1 strip control bytes and invalid UTF-8
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove combining marks and format characters (zero widths)
// 5 Width fold fullwidth to ASCII
// 6 Leet folding of lookalikes that sit inside words eg sh1t 5h!t @ss
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return collapseSpaces(leetFold(ns))
}

func leetLetter(r rune) (rune, bool) {
	switch r {
	case '4', '@':
		return 'a', true
	case '0':
		return 'o', true
	case '1', '!':
		return 'i', true
	case '3':
		return 'e', true
	case '5', '$':
		return 's', true
	case '7':
		return 't', true
	}
	return r, false
}

// leetFold maps lookalikes to letters only when they are part of a word:
// a run of lookalikes followed by a letter folds ("5h1t", "@ss"), and a single
// trailing lookalike after a letter folds ("h3ll0"), except '!' which usually
// ends a sentence. Plain numbers and punctuation stay as they are
func leetFold(s string) string {
	rs := []rune(s)
	out := make([]rune, len(rs))
	copy(out, rs)

	for i := 0; i < len(rs); {
		if _, ok := leetLetter(rs[i]); !ok {
			i++
			continue
		}
		j := i
		for j < len(rs) {
			if _, ok := leetLetter(rs[j]); !ok {
				break
			}
			j++
		}
		before := i > 0 && unicode.IsLetter(rs[i-1])
		after := j < len(rs) && unicode.IsLetter(rs[j])
		fold := after || (before && j-i == 1 && rs[i] != '!')
		if fold {
			for k := i; k < j; k++ {
				out[k], _ = leetLetter(rs[k])
			}
		}
		i = j
	}
	return string(out)
}

// collapseSpaces converts every whitespace run to a single ASCII space and trims
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Email folds an address for matching: NFKC, trimmed, lower cased
func Email(s string) string {
	s = strings.TrimSpace(norm.NFKC.String(Sanitize(s)))
	return strings.ToLower(s)
}
