package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func seqOf(lits ...string) *Seq {
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = NewLiteral([]byte(l), true)
	}
	return NewSeq(out...)
}

func TestSeq_Minimize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"prefix covers longer", []string{"foobar", "foo"}, []string{"foo"}},
		{"duplicates", []string{"ab", "ab"}, []string{"ab"}},
		{"disjoint kept", []string{"hello", "world"}, []string{"hello", "world"}},
		{"shortest first", []string{"abc", "x", "abd"}, []string{"x", "abc", "abd"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := seqOf(tt.in...)
			seq.Minimize()
			if diff := cmp.Diff(tt.want, literalStrings(seq)); diff != "" {
				t.Errorf("minimize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSeq_Clone(t *testing.T) {
	orig := seqOf("abc")
	clone := orig.Clone()
	clone.Get(0).Bytes[0] = 'x'

	assert.Equal(t, string(orig.Get(0).Bytes), "abc")
	assert.Assert(t, (*Seq)(nil).Clone() == nil)
}

func TestSeq_Accessors(t *testing.T) {
	var nilSeq *Seq
	assert.Equal(t, nilSeq.Len(), 0)
	assert.Assert(t, nilSeq.IsEmpty())
	assert.Assert(t, !nilSeq.AllComplete())

	seq := NewSeq(NewLiteral([]byte("a"), true), NewLiteral([]byte("bc"), false))
	assert.Equal(t, seq.Len(), 2)
	assert.Assert(t, !seq.AllComplete())
	assert.Equal(t, seq.Get(1).Len(), 2)
	assert.Equal(t, seq.String(), "[a bc]")
	assert.Equal(t, seq.Get(0).String(), "literal{a, complete=true}")
}
