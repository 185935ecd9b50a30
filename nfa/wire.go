package nfa

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the version tag written by MarshalProgram.
const WireVersion = 1

// cborEncMode encodes canonically so equal programs yield equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("nfa: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type wireProgram struct {
	Version uint8      `cbor:"1,keyasint"`
	Insts   []wireInst `cbor:"2,keyasint"`
}

type wireInst struct {
	Op   uint8  `cbor:"1,keyasint"`
	Rune int32  `cbor:"2,keyasint,omitempty"`
	X    uint32 `cbor:"3,keyasint,omitempty"`
	Y    uint32 `cbor:"4,keyasint,omitempty"`
}

// MarshalProgram serializes a Program to CBOR bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	w := wireProgram{
		Version: WireVersion,
		Insts:   make([]wireInst, len(p.insts)),
	}
	for i, inst := range p.insts {
		w.Insts[i] = wireInst{
			Op:   uint8(inst.Op),
			Rune: inst.Rune,
			X:    uint32(inst.X),
			Y:    uint32(inst.Y),
		}
	}
	return cborEncMode.Marshal(&w)
}

// UnmarshalProgram deserializes a Program from CBOR bytes. The decoded
// instructions are validated like NewProgram does; a structurally broken
// program fails with an error wrapping ErrInvalidProgram.
func UnmarshalProgram(data []byte) (*Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("nfa: unmarshal program: %w", err)
	}
	if w.Version != WireVersion {
		return nil, fmt.Errorf("nfa: unmarshal program: %w",
			&ProgramError{Addr: InvalidAddr, Reason: fmt.Sprintf("unsupported version %d", w.Version)})
	}

	insts := make([]Inst, len(w.Insts))
	for i, wi := range w.Insts {
		insts[i] = Inst{
			Op:   InstOp(wi.Op),
			Rune: wi.Rune,
			X:    Addr(wi.X),
			Y:    Addr(wi.Y),
		}
	}
	p, err := NewProgram(insts)
	if err != nil {
		return nil, fmt.Errorf("nfa: unmarshal program: %w", err)
	}
	return p, nil
}
