// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter is used to quickly reject positions in the haystack that cannot
// possibly start a match. When every match must begin with one of a known set
// of literals, only positions where one of them occurs are candidates; the
// evaluator is run at those positions alone.
//
// The package selects a strategy based on the extracted literals:
//   - Single byte → memchr (bytes.IndexByte)
//   - Single substring → memmem (bytes.Index)
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	ast, _ := syntax.Parse("hello|world")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(ast)
//	pf := prefilter.New(prefixes)
//
//	haystack := []byte("foo hello bar world baz")
//	pos := pf.Find(haystack, 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/regexvm/literal"
)

// Prefilter is used to quickly find candidate match positions before running
// the full evaluator.
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// start, or -1 if no candidate is found.
	//
	// A candidate means one of the prefilter literals begins there. It does
	// not guarantee a match; the caller must verify it with the evaluator.
	// Every position before the returned index is guaranteed not to start
	// a match.
	Find(haystack []byte, start int) int

	// IsComplete returns true if every literal is an entire match of the
	// pattern, so a candidate is always a match.
	IsComplete() bool
}

// New constructs the best prefilter for the given prefix literals. It
// returns nil if seq is empty, meaning every position is a candidate.
//
// seq is not modified.
func New(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() {
		return nil
	}
	complete := seq.AllComplete()

	seq = seq.Clone()
	seq.Minimize()

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return &memchrPrefilter{needle: lit.Bytes[0], complete: complete}
		}
		return &memmemPrefilter{needle: lit.Bytes, complete: complete}
	}
	return newAhoCorasickPrefilter(seq, complete)
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

// Find implements Prefilter.Find.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// memmemPrefilter searches for a single substring.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// Find implements Prefilter.Find.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// ahoCorasickPrefilter searches for any of several literals at once.
//
// The automaton may report the occurrence that ends first rather than the
// one that starts first. Any literal starting earlier must then overlap the
// reported one, so only the window of maxLen bytes before its end is
// rechecked.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	lits     [][]byte
	maxLen   int
	complete bool
}

func newAhoCorasickPrefilter(seq *literal.Seq, complete bool) Prefilter {
	p := &ahoCorasickPrefilter{complete: complete}
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i).Bytes
		builder.AddPattern(lit)
		p.lits = append(p.lits, lit)
		if len(lit) > p.maxLen {
			p.maxLen = len(lit)
		}
	}
	auto, err := builder.Build()
	if err != nil {
		// No prefilter: every position stays a candidate.
		return nil
	}
	p.auto = auto
	return p
}

// Find implements Prefilter.Find.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	for i := max(start, m.End-p.maxLen); i < m.Start; i++ {
		if p.startsAt(haystack, i) {
			return i
		}
	}
	return m.Start
}

// startsAt reports whether any literal begins at haystack[i].
func (p *ahoCorasickPrefilter) startsAt(haystack []byte, i int) bool {
	for _, lit := range p.lits {
		if bytes.HasPrefix(haystack[i:], lit) {
			return true
		}
	}
	return false
}

// IsComplete implements Prefilter.IsComplete.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return p.complete
}
