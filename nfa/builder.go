package nfa

import (
	"fmt"

	"github.com/coregx/regexvm/internal/conv"
)

// Builder constructs programs incrementally using a low-level API.
// This provides full control over instruction layout and is used by the
// Compiler.
//
// Forward branches are emitted in two phases: the instruction is added with
// InvalidAddr as a placeholder target, dependent code is emitted, and the
// placeholder is then overwritten with PatchJump or PatchSplit once the true
// address is known. Every placeholder is expected to be resolved before Build.
type Builder struct {
	insts []Inst
	pc    Addr // address of the next instruction
}

// NewBuilder creates a new program builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new program builder with specified
// initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		insts: make([]Inst, 0, capacity),
	}
}

// PC returns the address the next instruction will be emitted at.
func (b *Builder) PC() Addr {
	return b.pc
}

// Next returns PC()+1, failing with ErrAddressOverflow if it does not fit.
func (b *Builder) Next() (Addr, error) {
	next, ok := conv.AddUint32(uint32(b.pc), 1)
	if !ok {
		return InvalidAddr, &CodeGenError{Kind: ErrAddressOverflow, Addr: b.pc}
	}
	return Addr(next), nil
}

// emit appends inst at PC() and advances the address counter.
func (b *Builder) emit(inst Inst) (Addr, error) {
	at := b.pc
	pc := uint32(b.pc)
	if !conv.IncUint32(&pc) {
		return InvalidAddr, &CodeGenError{Kind: ErrAddressOverflow, Addr: at}
	}
	b.insts = append(b.insts, inst)
	b.pc = Addr(pc)
	return at, nil
}

// AddLiteral adds an instruction consuming the codepoint r.
func (b *Builder) AddLiteral(r rune) (Addr, error) {
	return b.emit(Inst{Op: InstLiteral, Rune: r})
}

// AddDot adds an instruction consuming any codepoint.
func (b *Builder) AddDot() (Addr, error) {
	return b.emit(Inst{Op: InstDot})
}

// AddMatch adds the accepting instruction.
func (b *Builder) AddMatch() (Addr, error) {
	return b.emit(Inst{Op: InstMatch})
}

// AddJump adds an unconditional jump to target. Pass InvalidAddr and patch
// later with PatchJump for forward jumps.
func (b *Builder) AddJump(target Addr) (Addr, error) {
	return b.emit(Inst{Op: InstJump, X: target})
}

// AddSplit adds a choice between x (tried first) and y. Either target may be
// InvalidAddr and patched later with PatchSplit.
func (b *Builder) AddSplit(x, y Addr) (Addr, error) {
	return b.emit(Inst{Op: InstSplit, X: x, Y: y})
}

// PatchJump sets the target of the Jump at address at.
func (b *Builder) PatchJump(at, target Addr) error {
	inst, err := b.patchPoint(at, InstJump)
	if err != nil {
		return err
	}
	inst.X = target
	return nil
}

// PatchSplit sets the second (fallback) target of the Split at address at.
func (b *Builder) PatchSplit(at, target Addr) error {
	inst, err := b.patchPoint(at, InstSplit)
	if err != nil {
		return err
	}
	inst.Y = target
	return nil
}

// patchPoint returns the instruction at address at, which must have the
// given op.
func (b *Builder) patchPoint(at Addr, op InstOp) (*Inst, error) {
	if uint64(at) >= uint64(len(b.insts)) {
		return nil, &CodeGenError{
			Kind:   ErrInternalInvariant,
			Addr:   at,
			Detail: "patch address out of bounds",
		}
	}
	inst := &b.insts[at]
	if inst.Op != op {
		return nil, &CodeGenError{
			Kind:   ErrInternalInvariant,
			Addr:   at,
			Detail: fmt.Sprintf("expected %s at patch point, got %s", op, inst.Op),
		}
	}
	return inst, nil
}

// Len returns the number of instructions emitted so far.
func (b *Builder) Len() int {
	return len(b.insts)
}

// Build finalizes and returns the program. It fails if any placeholder is
// still unresolved or the program does not end with its single Match.
func (b *Builder) Build() (*Program, error) {
	if err := validate(b.insts); err != nil {
		return nil, &CodeGenError{Kind: ErrInternalInvariant, Addr: InvalidAddr, Detail: err.Error()}
	}
	insts := make([]Inst, len(b.insts))
	copy(insts, b.insts)
	return &Program{insts: insts}, nil
}
