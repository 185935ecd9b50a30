package nfa

import (
	"github.com/coregx/regexvm/internal/conv"
	"github.com/coregx/regexvm/internal/sparse"
)

// PikeVM executes programs breadth-first (Thompson simulation).
//
// Instead of exploring one path at a time it keeps the set of live program
// counters for the current input position and advances all of them together,
// one codepoint per step. Each program counter is live at most once per
// position, so a run takes O(len(prog) * len(input)) time regardless of the
// pattern, and loops over empty-matching bodies terminate.
//
// Live threads are ordered by priority: the order in which the Backtracker
// would reach them. When a Match is reached, lower-priority threads are
// dropped, so RunEnd reports the same match end as the Backtracker.
type PikeVM struct {
	opts Options

	clist   *sparse.SparseSet
	nlist   *sparse.SparseSet
	stack   []Addr
	counter stepCounter
	trace   bool
}

// NewPikeVM creates a breadth-first evaluator.
func NewPikeVM(opts Options) *PikeVM {
	return &PikeVM{opts: opts}
}

// Run reports whether prog matches input starting at (pc, sp).
func (p *PikeVM) Run(prog *Program, input []rune, pc, sp Addr) (bool, error) {
	_, matched, err := p.search(prog, input, pc, sp, true)
	return matched, err
}

// RunEnd reports whether prog matches input starting at (pc, sp) and where
// the highest-priority match ends.
func (p *PikeVM) RunEnd(prog *Program, input []rune, pc, sp Addr) (Addr, bool, error) {
	return p.search(prog, input, pc, sp, false)
}

// initState sizes the thread lists for prog.
func (p *PikeVM) initState(prog *Program) {
	capacity := conv.IntToUint32(prog.Len())
	if p.clist == nil || p.clist.Capacity() < int(capacity) {
		p.clist = sparse.NewSparseSet(capacity)
		p.nlist = sparse.NewSparseSet(capacity)
	}
	p.clist.Clear()
	p.nlist.Clear()
	if p.stack == nil {
		p.stack = make([]Addr, 0, 16)
	}
}

// search runs the simulation. With earliest set it returns at the first
// Match reached, which is enough to answer whether a match exists.
//
//nolint:gocyclo,cyclop // complexity is inherent to instruction dispatch
func (p *PikeVM) search(prog *Program, input []rune, pc, sp Addr, earliest bool) (Addr, bool, error) {
	p.initState(prog)
	p.counter.reset(p.opts.StepLimit)
	p.trace = traceEnabled()

	if err := p.addThread(prog, p.clist, pc, sp); err != nil {
		return 0, false, err
	}

	var (
		end     Addr
		matched bool
	)
	for {
		if p.clist.IsEmpty() {
			break
		}
		atEnd := uint64(sp) >= uint64(len(input))

		var next Addr
		if !atEnd {
			n, ok := conv.AddUint32(uint32(sp), 1)
			if !ok {
				return 0, false, &EvalError{Kind: ErrCursorOverflow, PC: pc, SP: sp}
			}
			next = Addr(n)
		}

		if p.trace {
			log.Debugf("pikevm: sp=%d threads=%d", sp, p.clist.Len())
		}
		p.nlist.Clear()
	threads:
		for _, v := range p.clist.Values() {
			tpc := Addr(v)
			inst, _ := prog.Inst(tpc) // validated by addThread
			if !p.counter.tick() {
				return 0, false, &EvalError{Kind: ErrStepLimitExceeded, PC: tpc, SP: sp}
			}
			if p.trace {
				log.Debugf("pikevm: pc=%04d sp=%d %s", tpc, sp, inst)
			}

			switch inst.Op {
			case InstMatch:
				if p.opts.EndAnchored && !atEnd {
					continue
				}
				end, matched = sp, true
				if earliest {
					return end, true, nil
				}
				// Threads after this one have lower priority.
				break threads

			case InstLiteral:
				if atEnd || input[sp] != inst.Rune {
					continue
				}
				if err := p.step(prog, tpc, next); err != nil {
					return 0, false, err
				}

			case InstDot:
				if atEnd {
					continue
				}
				if err := p.step(prog, tpc, next); err != nil {
					return 0, false, err
				}
			}
		}

		if atEnd {
			break
		}
		p.clist, p.nlist = p.nlist, p.clist
		sp = next
	}
	return end, matched, nil
}

// step moves a thread past a consumed codepoint into the next list.
func (p *PikeVM) step(prog *Program, pc, next Addr) error {
	npc, ok := conv.AddUint32(uint32(pc), 1)
	if !ok {
		return &EvalError{Kind: ErrProgramCounterOverflow, PC: pc, SP: next - 1}
	}
	return p.addThread(prog, p.nlist, Addr(npc), next)
}

// addThread adds pc and everything reachable from it without consuming
// input to list, in priority order. Only Literal, Dot and Match threads are
// executed by search; Jump and Split entries just mark the closure visited.
func (p *PikeVM) addThread(prog *Program, list *sparse.SparseSet, pc, sp Addr) error {
	p.stack = append(p.stack[:0], pc)
	for len(p.stack) > 0 {
		cur := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		inst, ok := prog.Inst(cur)
		if !ok {
			return &EvalError{Kind: ErrInvalidProgramCounter, PC: cur, SP: sp}
		}
		if !list.Insert(uint32(cur)) {
			continue
		}

		switch inst.Op {
		case InstJump:
			p.stack = append(p.stack, inst.X)
		case InstSplit:
			// Push Y first so X's closure is added before it.
			p.stack = append(p.stack, inst.Y, inst.X)
		case InstLiteral, InstDot, InstMatch:
		default:
			return &EvalError{Kind: ErrInvalidProgramCounter, PC: cur, SP: sp}
		}
	}
	return nil
}
