// Package nfa compiles syntax trees into programs for a small virtual machine
// and executes them.
//
// A Program is a linear sequence of five instructions (Literal, Dot, Match,
// Jump, Split). The Compiler lowers a syntax.Node into a Program in one pass,
// forward-patching jump targets through the Builder. Two evaluators implement
// the same Run contract: the Backtracker, which tries the first target of every
// Split fully before the second, and the PikeVM, which advances all live
// program counters in lockstep and runs in time linear in the input.
package nfa

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can use errors.Is.
var (
	// ErrAddressOverflow indicates the program grew past the Addr range.
	ErrAddressOverflow = errors.New("address overflow")

	// ErrInternalInvariant indicates a patch point did not hold the expected
	// instruction. It signals a compiler defect.
	ErrInternalInvariant = errors.New("internal invariant violation")

	// ErrProgramCounterOverflow indicates pc arithmetic overflowed during
	// evaluation.
	ErrProgramCounterOverflow = errors.New("program counter overflow")

	// ErrCursorOverflow indicates input cursor arithmetic overflowed during
	// evaluation.
	ErrCursorOverflow = errors.New("input cursor overflow")

	// ErrInvalidProgramCounter indicates the evaluator reached an address
	// outside the program, or an instruction it does not understand.
	ErrInvalidProgramCounter = errors.New("invalid program counter")

	// ErrStepLimitExceeded indicates the evaluator ran out of its configured
	// step budget.
	ErrStepLimitExceeded = errors.New("step limit exceeded")

	// ErrInvalidProgram indicates a Program failed validation.
	ErrInvalidProgram = errors.New("invalid program")
)

// CodeGenError reports a failure to generate a program.
type CodeGenError struct {
	Kind   error
	Addr   Addr
	Detail string
}

// Error implements the error interface
func (e *CodeGenError) Error() string {
	msg := fmt.Sprintf("code generation failed: %v", e.Kind)
	if e.Addr != InvalidAddr {
		msg += fmt.Sprintf(" at address %04d", e.Addr)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the error kind
func (e *CodeGenError) Unwrap() error {
	return e.Kind
}

// EvalError reports a fatal evaluation failure. It is never used for an
// ordinary mismatch, which is a false result.
type EvalError struct {
	Kind error
	PC   Addr
	SP   Addr
}

// Error implements the error interface
func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation failed: %v (pc=%04d, sp=%d)", e.Kind, e.PC, e.SP)
}

// Unwrap returns the error kind
func (e *EvalError) Unwrap() error {
	return e.Kind
}

// ProgramError reports a program that violates the structural invariants
// evaluators rely on.
type ProgramError struct {
	Addr   Addr
	Reason string
}

// Error implements the error interface
func (e *ProgramError) Error() string {
	if e.Addr != InvalidAddr {
		return fmt.Sprintf("invalid program at address %04d: %s", e.Addr, e.Reason)
	}
	return fmt.Sprintf("invalid program: %s", e.Reason)
}

// Unwrap returns ErrInvalidProgram
func (e *ProgramError) Unwrap() error {
	return ErrInvalidProgram
}
