package regexvm

import (
	"unicode/utf8"

	"github.com/coregx/regexvm/internal/conv"
	"github.com/coregx/regexvm/nfa"
)

// input is text decoded into codepoints. Invalid UTF-8 bytes decode to
// utf8.RuneError one byte at a time.
type input struct {
	text    string
	runes   []rune
	offsets []int // offsets[i] is the byte offset of runes[i]; offsets[len(runes)] == len(text)
	valid   bool
}

func newInput(s string) *input {
	in := &input{
		text:    s,
		runes:   make([]rune, 0, len(s)),
		offsets: make([]int, 0, len(s)+1),
		valid:   utf8.ValidString(s),
	}
	for i, r := range s {
		in.runes = append(in.runes, r)
		in.offsets = append(in.offsets, i)
	}
	in.offsets = append(in.offsets, len(s))
	return in
}

// search tries the program at every start offset from 0 to len(in.runes)
// inclusive and stops at the first one that matches. Offsets are rune
// indexes. end is only computed when wantEnd is set.
//
// An evaluator error stops the scan immediately and is returned as is.
func (r *Regex) search(in *input, wantEnd bool) (start, end int, matched bool, err error) {
	ev := r.pool.Get().(nfa.Evaluator)
	defer r.pool.Put(ev)

	// The prefilter is built from UTF-8 literals; invalid input may hold
	// RuneError codepoints that have no such encoding in the text.
	if r.prefilter != nil && in.valid {
		return r.searchCandidates(ev, in, wantEnd)
	}

	last := len(in.runes)
	if r.beginText {
		last = 0
	}
	for sp := 0; sp <= last; sp++ {
		e, ok, err := r.runAt(ev, in, sp, wantEnd)
		if err != nil {
			return 0, 0, false, err
		}
		if ok {
			return sp, e, true, nil
		}
	}
	return 0, 0, false, nil
}

// searchCandidates runs the program only at offsets where the prefilter
// reports that a required prefix begins. A prefilter exists only for
// patterns that cannot match empty, so the offset len(in.runes) never
// matches and is not tried.
func (r *Regex) searchCandidates(ev nfa.Evaluator, in *input, wantEnd bool) (int, int, bool, error) {
	text := []byte(in.text)
	// A complete literal is an entire match, so finding it answers a
	// boolean query without running the evaluator.
	shortcut := !wantEnd && !r.endText && r.prefilter.IsComplete()

	idx := 0
	for pos := r.prefilter.Find(text, 0); pos != -1; pos = r.prefilter.Find(text, pos+1) {
		for in.offsets[idx] < pos {
			idx++
		}
		if shortcut {
			return idx, 0, true, nil
		}
		e, ok, err := r.runAt(ev, in, idx, wantEnd)
		if err != nil {
			return 0, 0, false, err
		}
		if ok {
			return idx, e, true, nil
		}
	}
	return 0, 0, false, nil
}

// runAt runs the evaluator with the cursor at rune offset sp.
func (r *Regex) runAt(ev nfa.Evaluator, in *input, sp int, wantEnd bool) (int, bool, error) {
	addr, ok := conv.IntToUint32Checked(sp)
	if !ok {
		return 0, false, &nfa.EvalError{Kind: nfa.ErrCursorOverflow, PC: 0, SP: nfa.InvalidAddr}
	}
	if !wantEnd {
		matched, err := ev.Run(r.prog, in.runes, 0, nfa.Addr(addr))
		return 0, matched, err
	}
	end, matched, err := ev.RunEnd(r.prog, in.runes, 0, nfa.Addr(addr))
	return int(end), matched, err
}
