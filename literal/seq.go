// Package literal extracts literal byte sequences from parsed patterns.
//
// The primary use case is prefiltering: if every match of a pattern must begin
// with one of a few literal strings (e.g., "foo" or "bar" for /(foo|bar)x*/),
// a fast substring search can skip every input offset where none of them
// occurs, and the evaluator only runs at the remaining candidates.
//
// Key concepts:
//   - A Literal is a concrete UTF-8 byte sequence that may begin a match
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Minimize drops literals already covered by a shorter one
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a literal byte sequence extracted from a pattern.
// The Complete flag indicates whether this literal represents a complete match
// (true) or just a prefix of potential matches (false).
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello.*/ → Literal{[]byte("hello"), false}
type Literal struct {
	// Bytes contains the literal, UTF-8 encoded.
	Bytes []byte

	// Complete indicates whether this literal is the entire match.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
//
// Example:
//
//	lit := literal.NewLiteral([]byte("test"), true)
//	fmt.Println(lit.String()) // Output: literal{test, complete=true}
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq represents a set of alternative literals, one of which begins every
// match. An empty Seq means no such set is known.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence contains no literals.
// A nil sequence is also considered empty.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete reports whether every literal is a complete match.
// It is false for an empty sequence.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the sequence.
// A nil sequence clones to nil.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	lits := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		b := make([]byte, len(lit.Bytes))
		copy(b, lit.Bytes)
		lits[i] = NewLiteral(b, lit.Complete)
	}
	return NewSeq(lits...)
}

// Minimize removes redundant literals in place.
//
// A literal is redundant if a shorter literal in the sequence is a prefix of
// it: any input position where the longer one occurs is already found by the
// shorter one. After Minimize the literals are ordered by length, shortest
// first; equal-length literals keep their relative order.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 ("foobar" is covered by "foo")
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(current.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// String returns the literals for debugging, e.g. [foo bar].
func (s *Seq) String() string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.Write(s.literals[i].Bytes)
	}
	b.WriteByte(']')
	return b.String()
}
