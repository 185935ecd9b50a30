package nfa

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestWire_RoundTrip(t *testing.T) {
	patterns := []string{"a", "a(b|c)*d", "x.+y?", "あ|ワク", `\(\)`}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			prog := compileForTest(t, pattern)

			data, err := MarshalProgram(prog)
			assert.NilError(t, err)
			got, err := UnmarshalProgram(data)
			assert.NilError(t, err)

			if diff := cmp.Diff(prog.Insts(), got.Insts()); diff != "" {
				t.Errorf("program mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWire_Canonical(t *testing.T) {
	a, err := MarshalProgram(compileForTest(t, "(ab|c)*"))
	assert.NilError(t, err)
	b, err := MarshalProgram(compileForTest(t, "(ab|c)*"))
	assert.NilError(t, err)
	assert.Assert(t, bytes.Equal(a, b))
}

func TestWire_RejectsInvalidProgram(t *testing.T) {
	tests := []struct {
		name string
		w    wireProgram
	}{
		{
			name: "jump out of range",
			w: wireProgram{Version: WireVersion, Insts: []wireInst{
				{Op: uint8(InstJump), X: 9},
				{Op: uint8(InstMatch)},
			}},
		},
		{
			name: "no trailing match",
			w: wireProgram{Version: WireVersion, Insts: []wireInst{
				{Op: uint8(InstLiteral), Rune: 'a'},
			}},
		},
		{
			name: "empty",
			w:    wireProgram{Version: WireVersion},
		},
		{
			name: "unknown version",
			w: wireProgram{Version: WireVersion + 1, Insts: []wireInst{
				{Op: uint8(InstMatch)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := cborEncMode.Marshal(&tt.w)
			assert.NilError(t, err)

			_, err = UnmarshalProgram(data)
			assert.Assert(t, errors.Is(err, ErrInvalidProgram), "got %v", err)
		})
	}
}

func TestWire_RejectsGarbage(t *testing.T) {
	_, err := UnmarshalProgram([]byte{0xff, 0x00, 0x13})
	assert.ErrorContains(t, err, "nfa: unmarshal program")
}
