package literal

import (
	"unicode/utf8"

	"github.com/coregx/regexvm/syntax"
)

// maxDepth bounds recursion on deeply nested trees.
const maxDepth = 100

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals
//
// A limit that is hit never produces a wrong set: extraction stops extending
// the literals it has, or gives up entirely.
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternative literals. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal in bytes. Default: 64.
	MaxLiteralLen int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
	}
}

// Extractor extracts prefix literals from syntax trees.
//
// Example:
//
//	ast, _ := syntax.Parse("(hello|world)x*")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(ast)
//	// prefixes = [hello world]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a set of literals such that every match of n
// begins with at least one of them. It returns an empty Seq when no such
// set is known, in particular whenever n can match the empty string.
//
// Handles these node types:
//   - OpLiteral: the codepoint itself
//   - OpConcat: leading literals concatenated, stopping at the first child
//     without a finite prefix set
//   - OpAlternate: union of both sides; empty if either side has none
//   - OpPlus: the body's prefixes (never complete)
//   - OpStar/OpQuest/OpDot: no prefix
//
// Examples:
//
//	"hello"         → [hello]
//	"(foo|bar)"     → [foo bar]
//	"a(b|c)d"       → [abd acd]
//	"hello.*world"  → [hello]
//	"a+b"           → [a]
//	".*foo"         → [] (no prefix requirement)
func (e *Extractor) ExtractPrefixes(n *syntax.Node) *Seq {
	lits, ok := e.prefixes(n, 0)
	if !ok {
		return NewSeq()
	}
	for _, lit := range lits {
		if len(lit.Bytes) == 0 {
			return NewSeq()
		}
	}
	return NewSeq(lits...)
}

// prefixes reports the prefix set of n, or false if it is unbounded.
// An empty literal in the result means n can match without consuming input.
func (e *Extractor) prefixes(n *syntax.Node, depth int) ([]Literal, bool) {
	if n == nil || depth > maxDepth {
		return nil, false
	}

	switch n.Op {
	case syntax.OpLiteral:
		return []Literal{NewLiteral(utf8.AppendRune(nil, n.Rune), true)}, true

	case syntax.OpConcat:
		return e.concatPrefixes(n.Sub, depth)

	case syntax.OpAlternate:
		var all []Literal
		for _, sub := range n.Sub {
			lits, ok := e.prefixes(sub, depth+1)
			if !ok {
				return nil, false
			}
			all = append(all, lits...)
			if len(all) > e.config.MaxLiterals {
				return nil, false
			}
		}
		return all, true

	case syntax.OpPlus:
		if len(n.Sub) != 1 {
			return nil, false
		}
		lits, ok := e.prefixes(n.Sub[0], depth+1)
		if !ok {
			return nil, false
		}
		return markIncomplete(lits), true

	default:
		// OpStar, OpQuest and OpDot: no finite prefix set.
		return nil, false
	}
}

// concatPrefixes extends the accumulated prefixes child by child for as long
// as every accumulated literal is complete and the limits allow.
func (e *Extractor) concatPrefixes(subs []*syntax.Node, depth int) ([]Literal, bool) {
	acc := []Literal{NewLiteral(nil, true)}
	for _, sub := range subs {
		lits, ok := e.prefixes(sub, depth+1)
		if !ok {
			return markIncomplete(acc), true
		}
		next, ok := e.cross(acc, lits)
		if !ok {
			return markIncomplete(acc), true
		}
		acc = next
		if !allComplete(acc) {
			return markIncomplete(acc), true
		}
	}
	return acc, true
}

// cross concatenates every literal of a with every literal of b, in order.
// It reports false if the result would exceed the configured limits.
func (e *Extractor) cross(a, b []Literal) ([]Literal, bool) {
	if len(a)*len(b) > e.config.MaxLiterals {
		return nil, false
	}
	out := make([]Literal, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			if len(x.Bytes)+len(y.Bytes) > e.config.MaxLiteralLen {
				return nil, false
			}
			buf := make([]byte, 0, len(x.Bytes)+len(y.Bytes))
			buf = append(buf, x.Bytes...)
			buf = append(buf, y.Bytes...)
			out = append(out, NewLiteral(buf, x.Complete && y.Complete))
		}
	}
	return out, true
}

func markIncomplete(lits []Literal) []Literal {
	for i := range lits {
		lits[i].Complete = false
	}
	return lits
}

func allComplete(lits []Literal) bool {
	for _, lit := range lits {
		if !lit.Complete {
			return false
		}
	}
	return true
}
