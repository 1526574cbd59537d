// Package lexicon loads the embedded word lists used by moderation and scraping
package lexicon

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var embedded []byte

// Lemma is a single profanity entry
type Lemma struct {
	Term      string `yaml:"term"`
	Category  string `yaml:"category"`
	Severity  int    `yaml:"severity"`
	Substring bool   `yaml:"substring"`
}

type rawLexicon struct {
	Version         int               `yaml:"version"`
	Profanity       []Lemma           `yaml:"profanity"`
	Allowlist       []string          `yaml:"allowlist"`
	PromoKeywords   []string          `yaml:"promo_keywords"`
	ImageKeywords   []string          `yaml:"image_keywords"`
	BlockedDomains  []string          `yaml:"blocked_domains"`
	UserAgents      []string          `yaml:"user_agents"`
	CurrencySymbols map[string]string `yaml:"currency_symbols"`
}

// Lexicon is the compiled, read only view of the word lists
type Lexicon struct {
	Version int

	// Lemmas are lowercased and sorted by term
	Lemmas []Lemma
	// Allow holds tokens that suppress substring lemma hits
	Allow map[string]struct{}

	PromoKeywords  []string
	ImageKeywords  []string
	BlockedDomains []string
	UserAgents     []string

	// Currency maps ISO 4217 codes to display symbols
	Currency map[string]string
}

var (
	once   sync.Once
	cached *Lexicon
	errLex error
)

// Default returns the embedded lexicon, parsed once per process
func Default() (*Lexicon, error) {
	once.Do(func() { cached, errLex = Parse(embedded) })
	return cached, errLex
}

// MustDefault is Default that panics on a broken embed
func MustDefault() *Lexicon {
	lx, err := Default()
	if err != nil {
		panic(err)
	}
	return lx
}

// Parse compiles a lexicon from yaml bytes
func Parse(b []byte) (*Lexicon, error) {
	var raw rawLexicon
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}
	if raw.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported version %d (want 1)", raw.Version)
	}

	lx := &Lexicon{
		Version:  raw.Version,
		Allow:    make(map[string]struct{}, len(raw.Allowlist)),
		Currency: make(map[string]string, len(raw.CurrencySymbols)),
	}

	seen := make(map[string]struct{}, len(raw.Profanity))
	for _, l := range raw.Profanity {
		l.Term = strings.ToLower(strings.TrimSpace(l.Term))
		if l.Term == "" {
			continue
		}
		if _, dup := seen[l.Term]; dup {
			continue
		}
		seen[l.Term] = struct{}{}
		if l.Severity <= 0 {
			l.Severity = 1
		}
		lx.Lemmas = append(lx.Lemmas, l)
	}
	sort.Slice(lx.Lemmas, func(i, j int) bool { return lx.Lemmas[i].Term < lx.Lemmas[j].Term })

	for _, s := range raw.Allowlist {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lx.Allow[s] = struct{}{}
		}
	}
	lx.PromoKeywords = lowerAll(raw.PromoKeywords)
	lx.ImageKeywords = lowerAll(raw.ImageKeywords)
	lx.BlockedDomains = lowerAll(raw.BlockedDomains)

	for _, ua := range raw.UserAgents {
		if ua = strings.TrimSpace(ua); ua != "" {
			lx.UserAgents = append(lx.UserAgents, ua)
		}
	}
	if len(lx.UserAgents) == 0 {
		return nil, fmt.Errorf("lexicon: user_agents must not be empty")
	}

	for code, sym := range raw.CurrencySymbols {
		lx.Currency[strings.ToUpper(strings.TrimSpace(code))] = sym
	}
	return lx, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Symbol maps a currency code to its symbol
// unknown codes pass through unchanged; empty input yields "$"
func (lx *Lexicon) Symbol(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return "$"
	}
	if s, ok := lx.Currency[c]; ok {
		return s
	}
	return code
}

// Blocked reports whether host belongs to a blocked marketplace
// a leading www. is ignored; "name.*" entries match name under any suffix
func (lx *Lexicon) Blocked(host string) bool {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	h = strings.TrimPrefix(h, "www.")
	if h == "" {
		return false
	}
	labels := strings.Split(h, ".")
	for _, d := range lx.BlockedDomains {
		if name, ok := strings.CutSuffix(d, ".*"); ok {
			// the name label must be followed by at least one suffix label
			for i := 0; i < len(labels)-1; i++ {
				if labels[i] == name {
					return true
				}
			}
			continue
		}
		if h == d || strings.HasSuffix(h, "."+d) {
			return true
		}
	}
	return false
}
