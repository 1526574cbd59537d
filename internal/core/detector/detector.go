// Package detector finds profanity lemmas in normalized text
package detector

import (
	"purchaseinbox/internal/core/lexicon"
	"purchaseinbox/internal/core/normalize"
)

// Hit is a single lemma match; Start/End are byte offsets into the scanned text
type Hit struct {
	Term     string
	Category string
	Severity int
	Start    int
	End      int
}

// Detector is immutable after New and safe for concurrent use
type Detector struct {
	ac     *automaton
	lemmas []lexicon.Lemma
	allow  map[string]struct{}
}

// New builds a detector over the lexicon's profanity lemmas
func New(lx *lexicon.Lexicon) *Detector {
	d := &Detector{ac: newAutomaton(), lemmas: lx.Lemmas, allow: lx.Allow}
	for i, lm := range lx.Lemmas {
		d.ac.add(lm.Term, i)
	}
	d.ac.build()
	return d
}

// Scan returns non overlapping hits over norm, leftmost longest first
func (d *Detector) Scan(norm string) []Hit {
	if norm == "" || len(d.lemmas) == 0 {
		return nil
	}
	var raw []Hit
	d.ac.each(norm, func(end, id int) {
		lm := d.lemmas[id]
		start := end - len(lm.Term)
		if !d.accept(norm, start, end, lm) {
			return
		}
		raw = append(raw, Hit{Term: lm.Term, Category: lm.Category, Severity: lm.Severity, Start: start, End: end})
	})
	return dropOverlaps(raw)
}

// Count returns the hit count over norm, retrying on a run squashed
// projection when the plain pass finds nothing ("shiiiit")
func (d *Detector) Count(norm string) int {
	if n := len(d.Scan(norm)); n > 0 {
		return n
	}
	sq := normalize.Squash(norm)
	if sq == norm {
		return 0
	}
	return len(d.Scan(sq))
}

func (d *Detector) accept(s string, start, end int, lm lexicon.Lemma) bool {
	if _, ok := d.allow[enclosingWord(s, start, end)]; ok {
		return false
	}
	return lm.Substring || standalone(s, start, end)
}

// dropOverlaps keeps the longest hit among those sharing bytes
func dropOverlaps(in []Hit) []Hit {
	if len(in) < 2 {
		return in
	}
	out := make([]Hit, 0, len(in))
	for _, h := range in {
		n := len(out)
		if n > 0 && h.Start < out[n-1].End {
			if h.End-h.Start > out[n-1].End-out[n-1].Start {
				out[n-1] = h
			}
			continue
		}
		out = append(out, h)
	}
	return out
}
