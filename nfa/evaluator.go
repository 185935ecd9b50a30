package nfa

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("regexvm.nfa")

// Evaluator executes a Program against input starting at a fixed program
// counter and input cursor. An evaluator only tests for a match beginning at
// sp; searching the whole input is the caller's job.
//
// A false result with a nil error is an ordinary mismatch. A non-nil error is
// always an *EvalError and means the program or the evaluator misbehaved;
// callers must stop rather than treat it as a mismatch.
//
// Implementations keep scratch state between calls and are not safe for
// concurrent use. Programs are; use one evaluator per goroutine.
type Evaluator interface {
	// Run reports whether prog matches input starting at (pc, sp).
	Run(prog *Program, input []rune, pc, sp Addr) (bool, error)

	// RunEnd is like Run and also returns the cursor at which Match was
	// reached, following the same preference order as Run: earlier
	// alternatives first, then more repetitions.
	RunEnd(prog *Program, input []rune, pc, sp Addr) (end Addr, matched bool, err error)
}

// Options configure an evaluator. The zero value is the plain behavior.
type Options struct {
	// EndAnchored makes Match succeed only when the whole input has been
	// consumed.
	EndAnchored bool

	// StepLimit bounds the number of instructions executed per call.
	// Zero means unlimited. Exceeding it fails with ErrStepLimitExceeded.
	StepLimit int

	// Memoize makes the Backtracker remember visited (pc, sp) pairs, which
	// bounds its work to len(prog)*(len(input)+1) steps and makes loops over
	// empty-matching bodies terminate. Whenever the plain search terminates,
	// memoization does not change its result or the reported match end.
	// The PikeVM ignores it.
	Memoize bool
}

// Run reports whether prog matches input starting at (pc, sp) using a
// backtracking evaluator with default options.
func Run(prog *Program, input []rune, pc, sp Addr) (bool, error) {
	return NewBacktracker(Options{}).Run(prog, input, pc, sp)
}

// stepCounter enforces Options.StepLimit.
type stepCounter struct {
	limit int
	steps int
}

func (c *stepCounter) reset(limit int) {
	c.limit = limit
	c.steps = 0
}

// tick records one executed instruction and reports whether the budget is
// still respected.
func (c *stepCounter) tick() bool {
	if c.limit <= 0 {
		return true
	}
	c.steps++
	return c.steps <= c.limit
}

func traceEnabled() bool {
	return log.AllowLevel(commonlog.Debug)
}
