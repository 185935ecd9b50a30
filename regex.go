// Package regexvm provides a small regular-expression engine built around a
// bytecode virtual machine.
//
// A pattern is parsed into a syntax tree (package syntax), lowered into a
// linear program of five instructions (package nfa), and executed against the
// input by a backtracking evaluator. Matching is leftmost-first: at each start
// offset earlier alternatives are preferred and repetition is greedy.
//
// Supported syntax: literal codepoints, '.' (any codepoint), '|', '(' ')'
// grouping, the postfix quantifiers '*', '+' and '?', and backslash escapes
// of the reserved characters. There are no character classes, captures or
// counted repetition. With Config.Anchors a leading '^' and trailing '$'
// anchor the pattern.
//
// Basic usage:
//
//	matched, suffix, err := regexvm.Match("b+c", "aabbcd")
//	// matched == true, suffix == "bbcd"
//
//	re := regexvm.MustCompile("a(b|c)*d")
//	ok, err := re.MatchString("xxabcbd")
//	loc, err := re.FindStringIndex("xxabcbd") // [2 7]
//
// Errors from any stage are returned as is: *syntax.Error for malformed
// patterns, *nfa.CodeGenError and *nfa.EvalError for failures of the code
// generator and the evaluator. A mismatch is never an error.
package regexvm

import (
	"sync"

	"github.com/tliron/commonlog"

	"github.com/coregx/regexvm/literal"
	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/prefilter"
	"github.com/coregx/regexvm/syntax"
)

var log = commonlog.GetLogger("regexvm")

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := regexvm.MustCompile(`hello`)
//	if ok, _ := re.MatchString("hello world"); ok {
//	    println("matched!")
//	}
type Regex struct {
	pattern   string
	config    Config
	prog      *nfa.Program
	beginText bool
	endText   bool
	prefilter prefilter.Prefilter // nil if none
	pool      *sync.Pool          // of nfa.Evaluator
}

// Match reports whether text contains a match of pattern and returns the
// suffix of text starting at the leftmost offset where a match begins.
//
// The pattern is parsed and compiled on every call; use Compile to reuse it.
//
// Example:
//
//	matched, suffix, err := regexvm.Match("bc", "abcab")
//	// matched == true, suffix == "bcab"
func Match(pattern, text string) (bool, string, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, "", err
	}
	return re.MatchSuffix(text)
}

// Compile compiles a regular expression pattern with DefaultConfig.
//
// Example:
//
//	re, err := regexvm.Compile(`a\.b*`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexvm: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := regexvm.DefaultConfig()
//	config.Anchors = true
//	re, err := regexvm.CompileWithConfig("^ab+$", config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var flags syntax.Flags
	if config.Anchors {
		flags |= syntax.Anchors
	}
	tree, err := syntax.ParseWithFlags(pattern, flags)
	if err != nil {
		return nil, err
	}

	prog, err := nfa.Compile(tree.Root)
	if err != nil {
		return nil, err
	}

	opts := nfa.Options{
		EndAnchored: tree.EndText,
		StepLimit:   config.StepLimit,
		Memoize:     config.Memoize,
	}
	if !opts.Memoize && tree.Root.HasEmptyLoop() {
		opts.Memoize = true
		log.Debugf("pattern %q: loop body matches empty, memoizing", pattern)
	}
	re := newRegex(pattern, prog, config, tree.BeginText, opts)

	// Under a step budget every offset must be evaluated: a skipped offset
	// could have exceeded the budget.
	if config.EnablePrefilter && config.StepLimit == 0 && !tree.BeginText {
		extractor := literal.New(literal.ExtractorConfig{
			MaxLiterals:   config.MaxLiterals,
			MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
		})
		prefixes := extractor.ExtractPrefixes(tree.Root)
		re.prefilter = prefilter.New(prefixes)
		log.Debugf("pattern %q: prefixes %s", pattern, prefixes)
	}

	log.Debugf("compiled %q: %d instructions, engine=%s", pattern, prog.Len(), config.Engine)
	return re, nil
}

// FromProgram wraps an already compiled program, for example one decoded
// with nfa.UnmarshalProgram. The result is unanchored and has no prefilter;
// String returns the empty pattern.
func FromProgram(prog *nfa.Program, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	opts := nfa.Options{
		StepLimit: config.StepLimit,
		Memoize:   config.Memoize,
	}
	return newRegex("", prog, config, false, opts), nil
}

func newRegex(pattern string, prog *nfa.Program, config Config, beginText bool, opts nfa.Options) *Regex {
	return &Regex{
		pattern:   pattern,
		config:    config,
		prog:      prog,
		beginText: beginText,
		endText:   opts.EndAnchored,
		pool: &sync.Pool{
			New: func() any {
				if config.Engine == EnginePikeVM {
					return nfa.NewPikeVM(opts)
				}
				return nfa.NewBacktracker(opts)
			},
		},
	}
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regex) MatchString(s string) (bool, error) {
	in := newInput(s)
	_, _, matched, err := r.search(in, false)
	return matched, err
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) (bool, error) {
	return r.MatchString(string(b))
}

// MatchSuffix reports whether s contains a match and returns the suffix of s
// starting at the leftmost offset where a match begins.
func (r *Regex) MatchSuffix(s string) (bool, string, error) {
	in := newInput(s)
	start, _, matched, err := r.search(in, false)
	if err != nil || !matched {
		return false, "", err
	}
	return true, s[in.offsets[start]:], nil
}

// FindString returns the text of the leftmost match in s. It returns "" if
// there is no match; use FindStringIndex to tell that apart from an empty
// match.
func (r *Regex) FindString(s string) (string, error) {
	loc, err := r.FindStringIndex(s)
	if err != nil || loc == nil {
		return "", err
	}
	return s[loc[0]:loc[1]], nil
}

// FindStringIndex returns a two-element slice of byte offsets defining the
// leftmost match in s: s[loc[0]:loc[1]]. Among matches starting at that
// offset it is the one the evaluator prefers (earlier alternatives first,
// greedy repetition). It returns nil if there is no match.
func (r *Regex) FindStringIndex(s string) ([]int, error) {
	in := newInput(s)
	start, end, matched, err := r.search(in, true)
	if err != nil || !matched {
		return nil, err
	}
	return []int{in.offsets[start], in.offsets[end]}, nil
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Program returns the compiled program.
func (r *Regex) Program() *nfa.Program {
	return r.prog
}

// Config returns the configuration the expression was compiled with.
func (r *Regex) Config() Config {
	return r.config
}

// QuoteMeta returns a string that escapes all reserved characters inside the
// argument text; the returned string is a pattern matching the literal text.
// Without Config.Anchors, '^' and '$' need no escaping.
//
// Example:
//
//	escaped := regexvm.QuoteMeta("1+1=2?")
//	// escaped = `1\+1=2\?`
func QuoteMeta(s string) string {
	const special = `\()|+*?.`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
