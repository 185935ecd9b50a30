package nfa

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Addr is the address of an instruction in a Program.
// Address arithmetic is overflow checked; see internal/conv.
type Addr uint32

// InvalidAddr marks a jump target that has not been patched yet.
const InvalidAddr Addr = math.MaxUint32

// InstOp identifies the kind of a VM instruction.
type InstOp uint8

const (
	// InstLiteral consumes one codepoint equal to Inst.Rune.
	InstLiteral InstOp = iota + 1

	// InstDot consumes any one codepoint.
	InstDot

	// InstMatch accepts. A valid Program has exactly one, at the end.
	InstMatch

	// InstJump continues at Inst.X without consuming input.
	InstJump

	// InstSplit continues at Inst.X and, if that fails, at Inst.Y.
	InstSplit
)

// String returns a human-readable name of the op.
func (op InstOp) String() string {
	switch op {
	case InstLiteral:
		return "Literal"
	case InstDot:
		return "Dot"
	case InstMatch:
		return "Match"
	case InstJump:
		return "Jump"
	case InstSplit:
		return "Split"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Inst is a single VM instruction. Which fields are valid depends on Op:
//
//	InstLiteral  Rune
//	InstJump     X
//	InstSplit    X (tried first), Y
type Inst struct {
	Op   InstOp
	Rune rune
	X    Addr
	Y    Addr
}

// String renders the instruction for program listings.
func (i Inst) String() string {
	switch i.Op {
	case InstLiteral:
		return "char " + strconv.QuoteRune(i.Rune)
	case InstDot:
		return "any"
	case InstMatch:
		return "match"
	case InstJump:
		return fmt.Sprintf("jump %04d", i.X)
	case InstSplit:
		return fmt.Sprintf("split %04d, %04d", i.X, i.Y)
	default:
		return i.Op.String()
	}
}

// Program is a compiled regular expression: an immutable, 0-indexed sequence
// of instructions. A Program is safe for concurrent use by any number of
// evaluators.
type Program struct {
	insts []Inst
}

// NewProgram validates insts and wraps them in a Program. The slice is
// copied.
func NewProgram(insts []Inst) (*Program, error) {
	if err := validate(insts); err != nil {
		return nil, err
	}
	p := &Program{insts: make([]Inst, len(insts))}
	copy(p.insts, insts)
	return p, nil
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}

// Inst returns the instruction at pc. It reports false if pc is out of
// bounds.
func (p *Program) Inst(pc Addr) (Inst, bool) {
	if uint64(pc) >= uint64(len(p.insts)) {
		return Inst{}, false
	}
	return p.insts[pc], true
}

// Insts returns a copy of the instructions.
func (p *Program) Insts() []Inst {
	out := make([]Inst, len(p.insts))
	copy(out, p.insts)
	return out
}

// Equal reports whether p and q contain the same instructions.
func (p *Program) Equal(q *Program) bool {
	if len(p.insts) != len(q.insts) {
		return false
	}
	for i := range p.insts {
		if p.insts[i] != q.insts[i] {
			return false
		}
	}
	return true
}

// String returns the address-annotated listing of the program.
//
//	0000: split 0001, 0003
//	0001: char 'a'
//	0002: jump 0000
//	0003: match
func (p *Program) String() string {
	var b strings.Builder
	_ = Disassemble(&b, p)
	return b.String()
}

// Disassemble writes the address-annotated listing of p to w, one
// instruction per line.
func Disassemble(w io.Writer, p *Program) error {
	for pc, inst := range p.insts {
		if _, err := fmt.Fprintf(w, "%04d: %s\n", pc, inst); err != nil {
			return err
		}
	}
	return nil
}

// validate checks the structural invariants every evaluator relies on:
// exactly one Match, located last, and every jump target in range.
func validate(insts []Inst) error {
	n := len(insts)
	if n == 0 {
		return &ProgramError{Addr: InvalidAddr, Reason: "empty program"}
	}
	if uint64(n) > uint64(InvalidAddr) {
		return &ProgramError{Addr: InvalidAddr, Reason: "program too large"}
	}
	inRange := func(a Addr) bool { return uint64(a) < uint64(n) }

	for i, inst := range insts {
		pc := Addr(i)
		switch inst.Op {
		case InstLiteral, InstDot:
		case InstMatch:
			if i != n-1 {
				return &ProgramError{Addr: pc, Reason: "match before end of program"}
			}
		case InstJump:
			if !inRange(inst.X) {
				return &ProgramError{Addr: pc, Reason: fmt.Sprintf("jump target %d out of range", inst.X)}
			}
		case InstSplit:
			if !inRange(inst.X) || !inRange(inst.Y) {
				return &ProgramError{Addr: pc, Reason: fmt.Sprintf("split targets %d, %d out of range", inst.X, inst.Y)}
			}
		default:
			return &ProgramError{Addr: pc, Reason: fmt.Sprintf("unknown op %d", inst.Op)}
		}
	}
	if insts[n-1].Op != InstMatch {
		return &ProgramError{Addr: Addr(n - 1), Reason: "program does not end with match"}
	}
	return nil
}
