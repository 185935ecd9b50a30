package nfa

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/regexvm/syntax"
)

func compileForTest(t *testing.T, pattern string) *Program {
	t.Helper()
	ast, err := syntax.Parse(pattern)
	assert.NilError(t, err, "parse %q", pattern)
	prog, err := Compile(ast)
	assert.NilError(t, err, "compile %q", pattern)
	return prog
}

func TestCompile_Layout(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{
			pattern: "ab",
			want: "0000: char 'a'\n" +
				"0001: char 'b'\n" +
				"0002: match\n",
		},
		{
			pattern: "a.",
			want: "0000: char 'a'\n" +
				"0001: any\n" +
				"0002: match\n",
		},
		{
			pattern: "a?",
			want: "0000: split 0001, 0002\n" +
				"0001: char 'a'\n" +
				"0002: match\n",
		},
		{
			pattern: "a*",
			want: "0000: split 0001, 0003\n" +
				"0001: char 'a'\n" +
				"0002: jump 0000\n" +
				"0003: match\n",
		},
		{
			pattern: "a+",
			want: "0000: char 'a'\n" +
				"0001: split 0000, 0002\n" +
				"0002: match\n",
		},
		{
			pattern: "a|b",
			want: "0000: split 0001, 0003\n" +
				"0001: char 'a'\n" +
				"0002: jump 0004\n" +
				"0003: char 'b'\n" +
				"0004: match\n",
		},
		{
			pattern: "a|b|c",
			want: "0000: split 0001, 0003\n" +
				"0001: char 'a'\n" +
				"0002: jump 0007\n" +
				"0003: split 0004, 0006\n" +
				"0004: char 'b'\n" +
				"0005: jump 0007\n" +
				"0006: char 'c'\n" +
				"0007: match\n",
		},
		{
			pattern: "x(ab)*y",
			want: "0000: char 'x'\n" +
				"0001: split 0002, 0005\n" +
				"0002: char 'a'\n" +
				"0003: char 'b'\n" +
				"0004: jump 0001\n" +
				"0005: char 'y'\n" +
				"0006: match\n",
		},
		{
			pattern: "あ+",
			want: "0000: char 'あ'\n" +
				"0001: split 0000, 0002\n" +
				"0002: match\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			prog := compileForTest(t, tt.pattern)
			if diff := cmp.Diff(tt.want, prog.String()); diff != "" {
				t.Errorf("listing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_SingleTrailingMatch(t *testing.T) {
	patterns := []string{
		"a", "abc", "a.c", "a|b", "(a|b)*c", "a+b?c*", "((a)|(b|c))+", `\.\*`, "(ab)?(cd)+",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			prog := compileForTest(t, pattern)
			matches := 0
			for _, inst := range prog.Insts() {
				if inst.Op == InstMatch {
					matches++
				}
			}
			assert.Equal(t, matches, 1)
			last, ok := prog.Inst(Addr(prog.Len() - 1))
			assert.Assert(t, ok)
			assert.Equal(t, last.Op, InstMatch)
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	ast, err := syntax.Parse("(a|bc)*d+e?")
	assert.NilError(t, err)

	first, err := Compile(ast)
	assert.NilError(t, err)
	c := NewCompiler()
	for i := 0; i < 3; i++ {
		again, err := c.Compile(ast)
		assert.NilError(t, err)
		assert.Assert(t, first.Equal(again), "compile %d differs:\n%s", i, again)
	}
}

func TestCompile_AddressOverflow(t *testing.T) {
	ast, err := syntax.Parse("abc")
	assert.NilError(t, err)

	c := &Compiler{builder: &Builder{pc: math.MaxUint32 - 2}}
	_, err = c.generate(ast)
	assert.Assert(t, errors.Is(err, ErrAddressOverflow), "got %v", err)

	var cgErr *CodeGenError
	assert.Assert(t, errors.As(err, &cgErr))
	assert.Equal(t, cgErr.Addr, Addr(math.MaxUint32))
}

func TestCompile_MalformedTree(t *testing.T) {
	tests := []struct {
		name string
		ast  *syntax.Node
	}{
		{"nil root", nil},
		{"nil child", syntax.Concat(syntax.Literal('a'), nil)},
		{"unknown op", &syntax.Node{Op: syntax.Op(99)}},
		{"star without child", &syntax.Node{Op: syntax.OpStar}},
		{"alternate with one child", &syntax.Node{Op: syntax.OpAlternate, Sub: []*syntax.Node{syntax.Literal('a')}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.ast)
			assert.Assert(t, errors.Is(err, ErrInternalInvariant), "got %v", err)
		})
	}
}
