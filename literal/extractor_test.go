package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/regexvm/syntax"
)

func extract(t *testing.T, config ExtractorConfig, pattern string) *Seq {
	t.Helper()
	ast, err := syntax.Parse(pattern)
	assert.NilError(t, err, "parse %q", pattern)
	return New(config).ExtractPrefixes(ast)
}

func literalStrings(s *Seq) []string {
	out := []string{}
	for i := 0; i < s.Len(); i++ {
		out = append(out, string(s.Get(i).Bytes))
	}
	return out
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern  string
		want     []string
		complete bool
	}{
		// Literals
		{"hello", []string{"hello"}, true},
		{"a", []string{"a"}, true},
		{"あいう", []string{"あいう"}, true},
		{`\.\*`, []string{".*"}, true},

		// Alternation
		{"foo|bar", []string{"foo", "bar"}, true},
		{"a(b|c)d", []string{"abd", "acd"}, true},
		{"(ab|c)x", []string{"abx", "cx"}, true},

		// Prefix only
		{"hello.*world", []string{"hello"}, false},
		{"ab?c", []string{"a"}, false},
		{"a+b", []string{"a"}, false},
		{"(foo|bar)+", []string{"foo", "bar"}, false},
		{"x.", []string{"x"}, false},

		// No prefix
		{".*foo", []string{}, false},
		{"a*b", []string{}, false},
		{"a?", []string{}, false},
		{"foo|.x", []string{}, false},
		{"(a|b*)c", []string{}, false},
		{".", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := extract(t, DefaultConfig(), tt.pattern)
			if diff := cmp.Diff(tt.want, literalStrings(seq)); diff != "" {
				t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, seq.AllComplete(), tt.complete)
		})
	}
}

func TestExtractPrefixes_Limits(t *testing.T) {
	tests := []struct {
		name    string
		config  ExtractorConfig
		pattern string
		want    []string
	}{
		{
			name:    "length stops extension",
			config:  ExtractorConfig{MaxLiterals: 64, MaxLiteralLen: 3},
			pattern: "abcdef",
			want:    []string{"abc"},
		},
		{
			name:    "multibyte runes are never split",
			config:  ExtractorConfig{MaxLiterals: 64, MaxLiteralLen: 4},
			pattern: "あいう",
			want:    []string{"あ"},
		},
		{
			name:    "cross product stops extension",
			config:  ExtractorConfig{MaxLiterals: 4, MaxLiteralLen: 64},
			pattern: "(a|b)(c|d)(e|f)",
			want:    []string{"ac", "ad", "bc", "bd"},
		},
		{
			name:    "too many alternatives",
			config:  ExtractorConfig{MaxLiterals: 2, MaxLiteralLen: 64},
			pattern: "a|b|c",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := extract(t, tt.config, tt.pattern)
			if diff := cmp.Diff(tt.want, literalStrings(seq)); diff != "" {
				t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
			}
			if seq.Len() > 0 {
				assert.Assert(t, !seq.AllComplete())
			}
		})
	}
}

func TestExtractPrefixes_MalformedTree(t *testing.T) {
	e := New(DefaultConfig())
	assert.Assert(t, e.ExtractPrefixes(nil).IsEmpty())
	assert.Assert(t, e.ExtractPrefixes(&syntax.Node{Op: syntax.OpPlus}).IsEmpty())
	assert.Assert(t, e.ExtractPrefixes(syntax.Concat()).IsEmpty())
}
