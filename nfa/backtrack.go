package nfa

import (
	"github.com/coregx/regexvm/internal/conv"
)

// Backtracker executes programs depth-first.
//
// At every Split the first target is explored completely before the second,
// which gives leftmost-alternative preference and greedy repetition. Pending
// second targets are kept on an explicit LIFO stack of (pc, sp) resumption
// points rather than on the goroutine stack, so the depth of backtracking is
// bounded by memory only.
//
// Plain backtracking is exponential in the worst case and does not terminate
// on loops whose body can match empty (e.g. (a*)*). Options.Memoize bounds
// both by remembering visited (pc, sp) pairs; Options.StepLimit turns runaway
// searches into errors.
type Backtracker struct {
	opts Options

	stack   []frame
	visited []uint64
	dirty   []int // indexes of nonzero words in visited
	width   int   // len(input)+1, row width of visited
	counter stepCounter
	trace   bool
}

// frame is a resumption point: continue at pc with the cursor at sp.
type frame struct {
	pc Addr
	sp Addr
}

// NewBacktracker creates a backtracking evaluator.
func NewBacktracker(opts Options) *Backtracker {
	return &Backtracker{
		opts:  opts,
		stack: make([]frame, 0, 16),
	}
}

// Run reports whether prog matches input starting at (pc, sp).
func (b *Backtracker) Run(prog *Program, input []rune, pc, sp Addr) (bool, error) {
	_, matched, err := b.RunEnd(prog, input, pc, sp)
	return matched, err
}

// RunEnd reports whether prog matches input starting at (pc, sp) and where
// the first match found ends.
func (b *Backtracker) RunEnd(prog *Program, input []rune, pc, sp Addr) (Addr, bool, error) {
	b.counter.reset(b.opts.StepLimit)
	b.trace = traceEnabled()
	if b.opts.Memoize {
		b.resetVisited(prog.Len(), len(input))
	}

	b.stack = append(b.stack[:0], frame{pc: pc, sp: sp})
	for len(b.stack) > 0 {
		f := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		end, matched, err := b.thread(prog, input, f.pc, f.sp)
		if err != nil {
			b.stack = b.stack[:0]
			return 0, false, err
		}
		if matched {
			b.stack = b.stack[:0]
			return end, true, nil
		}
	}
	return 0, false, nil
}

// thread runs a single path until it matches or fails. Every Split pushes
// its second target and continues with the first.
//
//nolint:gocyclo,cyclop // complexity is inherent to instruction dispatch
func (b *Backtracker) thread(prog *Program, input []rune, pc, sp Addr) (Addr, bool, error) {
	for {
		inst, ok := prog.Inst(pc)
		if !ok {
			return 0, false, &EvalError{Kind: ErrInvalidProgramCounter, PC: pc, SP: sp}
		}
		if !b.counter.tick() {
			return 0, false, &EvalError{Kind: ErrStepLimitExceeded, PC: pc, SP: sp}
		}
		if b.opts.Memoize && !b.shouldVisit(pc, sp) {
			return 0, false, nil
		}
		if b.trace {
			log.Debugf("backtrack: pc=%04d sp=%d %s", pc, sp, inst)
		}

		switch inst.Op {
		case InstLiteral:
			if uint64(sp) >= uint64(len(input)) || input[sp] != inst.Rune {
				return 0, false, nil
			}
			if err := advance(&pc, &sp); err != nil {
				return 0, false, err
			}

		case InstDot:
			if uint64(sp) >= uint64(len(input)) {
				return 0, false, nil
			}
			if err := advance(&pc, &sp); err != nil {
				return 0, false, err
			}

		case InstMatch:
			if b.opts.EndAnchored && uint64(sp) != uint64(len(input)) {
				return 0, false, nil
			}
			return sp, true, nil

		case InstJump:
			pc = inst.X

		case InstSplit:
			b.stack = append(b.stack, frame{pc: inst.Y, sp: sp})
			pc = inst.X

		default:
			return 0, false, &EvalError{Kind: ErrInvalidProgramCounter, PC: pc, SP: sp}
		}
	}
}

// advance moves past a consumed codepoint.
func advance(pc, sp *Addr) error {
	p := uint32(*pc)
	if !conv.IncUint32(&p) {
		return &EvalError{Kind: ErrProgramCounterOverflow, PC: *pc, SP: *sp}
	}
	s := uint32(*sp)
	if !conv.IncUint32(&s) {
		return &EvalError{Kind: ErrCursorOverflow, PC: *pc, SP: *sp}
	}
	*pc, *sp = Addr(p), Addr(s)
	return nil
}

// resetVisited prepares the visited bit vector for a new run. Only the words
// the previous run set are cleared, so retrying at every start offset costs
// no more than the states actually visited.
func (b *Backtracker) resetVisited(numInsts, inputLen int) {
	for _, w := range b.dirty {
		b.visited[w] = 0
	}
	b.dirty = b.dirty[:0]

	b.width = inputLen + 1
	bits := numInsts * b.width
	words := (bits + 63) / 64

	if cap(b.visited) >= words {
		b.visited = b.visited[:words]
	} else {
		b.visited = make([]uint64, words)
	}
}

// shouldVisit checks if (pc, sp) has been visited and marks it if not.
// Cursors past the end of input are not tracked.
func (b *Backtracker) shouldVisit(pc, sp Addr) bool {
	if int(sp) >= b.width {
		return true
	}
	idx := int(pc)*b.width + int(sp)
	word := idx / 64
	bit := uint64(1) << (idx % 64)

	if b.visited[word]&bit != 0 {
		return false
	}
	if b.visited[word] == 0 {
		b.dirty = append(b.dirty, word)
	}
	b.visited[word] |= bit
	return true
}
