package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"purchaseinbox/internal/core/detector"
	"purchaseinbox/internal/core/lexicon"
	"purchaseinbox/internal/core/normalize"
	"purchaseinbox/internal/services/moderation/domain"
)

// rule weights
const (
	wProfanity    = 0.4
	capProfanity  = 0.8
	wCaps         = 0.3
	wPunctuation  = 0.2
	wCharRun      = 0.3
	wURL          = 0.4
	wPromo        = 0.3
	capPromo      = 0.6
	wRepeatPhrase = 0.3
	wTooShort     = 0.5
	nsfwKeyword   = 0.9

	capsMinLetters = 5
	capsRatio      = 0.7
	charRunMin     = 5
	phraseRepeats  = 3
	minLength      = 3
)

var (
	rePunct = regexp.MustCompile(`[!?]{3,}`)
	reURL   = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.[a-z0-9-]+\.[a-z]{2,}`)
)

// Scorer is the local heuristic pass, immutable and safe for concurrent use
type Scorer struct {
	det   *detector.Detector
	norm  *normalize.Normalizer
	promo []string
	image []string
}

// NewScorer builds a Scorer over the lexicon word lists
func NewScorer(lx *lexicon.Lexicon) *Scorer {
	return &Scorer{
		det:   detector.New(lx),
		norm:  normalize.New(),
		promo: lx.PromoKeywords,
		image: lx.ImageKeywords,
	}
}

// Text scores raw text locally
func (s *Scorer) Text(raw string) domain.TextVerdict {
	var (
		tox, spam float64
		fired     []string
	)
	norm := s.norm.Normalize(raw)

	hits := s.det.Count(norm)
	if hits > 0 {
		tox += min(wProfanity*float64(hits), capProfanity)
		fired = append(fired, "profanity")
	}
	if shouting(raw) {
		tox += wCaps
		fired = append(fired, "excessive caps")
	}
	if rePunct.MatchString(raw) {
		tox += wPunctuation
		fired = append(fired, "repeated punctuation")
	}

	if normalize.LongestRun(raw) >= charRunMin {
		spam += wCharRun
		fired = append(fired, "character repetition")
	}
	if reURL.MatchString(raw) {
		spam += wURL
		fired = append(fired, "contains link")
	}
	if n := s.promoHits(raw); n > 0 {
		spam += min(wPromo*float64(n), capPromo)
		fired = append(fired, "promotional content")
	}
	if repeatedPhrase(norm) {
		spam += wRepeatPhrase
		fired = append(fired, "repeated phrase")
	}
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < minLength {
		spam += wTooShort
		fired = append(fired, "too short")
	}

	tox, spam = clamp01(tox), clamp01(spam)
	return domain.TextVerdict{
		Allowed:           tox < domain.Threshold && spam < domain.Threshold,
		ToxicityScore:     tox,
		SpamScore:         spam,
		ProfanityDetected: hits > 0,
		Reason:            strings.Join(fired, ", "),
		Source:            domain.SourceLocal,
	}
}

// ImageURL is the last resort image check, a keyword scan over the url
func (s *Scorer) ImageURL(u string) domain.ImageVerdict {
	lu := strings.ToLower(u)
	for _, kw := range s.image {
		if strings.Contains(lu, kw) {
			return domain.ImageVerdict{
				NSFWScore: nsfwKeyword,
				Reason:    "unsafe keyword in image url",
				Source:    domain.SourceLocal,
			}
		}
	}
	return domain.ImageVerdict{Safe: true, Source: domain.SourceLocal}
}

func (s *Scorer) promoHits(raw string) int {
	lower := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	n := 0
	for _, kw := range s.promo {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// shouting is true when more than 70% of at least 5 letters are upper case
func shouting(raw string) bool {
	letters, upper := 0, 0
	for _, r := range raw {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters >= capsMinLetters && float64(upper)/float64(letters) > capsRatio
}

// repeatedPhrase is true when one two word phrase occurs three or more times
func repeatedPhrase(norm string) bool {
	words := strings.FieldsFunc(norm, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) < phraseRepeats+1 {
		return false
	}
	seen := make(map[string]int, len(words))
	for i := 0; i+1 < len(words); i++ {
		k := words[i] + " " + words[i+1]
		seen[k]++
		if seen[k] >= phraseRepeats {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }
