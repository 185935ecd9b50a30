package syntax

// Flags control optional parser behavior.
type Flags uint8

const (
	// Anchors makes a leading '^' and a trailing '$' anchor the pattern to
	// the start and end of the input instead of matching those codepoints
	// literally.
	Anchors Flags = 1 << iota
)

// Tree is the result of ParseWithFlags: the syntax tree plus the anchors
// that were stripped from the pattern.
type Tree struct {
	Root      *Node
	BeginText bool // pattern started with '^' (Anchors only)
	EndText   bool // pattern ended with '$' (Anchors only)
}

// reserved lists the codepoints with special meaning. Exactly these may be
// escaped with a backslash.
const reserved = `\()|+*?.`

func isReserved(r rune) bool {
	for _, c := range reserved {
		if r == c {
			return true
		}
	}
	return false
}

// Parse parses pattern into a syntax tree.
//
// Example:
//
//	ast, err := syntax.Parse("ab|c*")
//	// ast = Alternate(Concat[Literal('a'), Literal('b')], Concat[Star(Literal('c'))])
func Parse(pattern string) (*Node, error) {
	tree, err := ParseWithFlags(pattern, 0)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}

// ParseWithFlags parses pattern with the given flags.
func ParseWithFlags(pattern string, flags Flags) (*Tree, error) {
	runes := []rune(pattern)
	tree := &Tree{}

	// Anchors are only recognized at the very ends of the pattern. base keeps
	// error positions relative to the original text.
	base, end := 0, len(runes)
	if flags&Anchors != 0 {
		if end > 0 && runes[0] == '^' {
			tree.BeginText = true
			base = 1
		}
		if end > base && runes[end-1] == '$' && !escapedAt(runes[base:], end-1-base) {
			tree.EndText = true
			end--
		}
	}

	p := &parser{expr: pattern}
	root, err := p.parse(runes[base:end], base)
	if err != nil {
		return nil, err
	}
	tree.Root = root
	return tree, nil
}

// escapedAt reports whether the codepoint at i is preceded by an odd number
// of backslashes.
func escapedAt(runes []rune, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && runes[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// scope is an enclosing group saved while a nested group is parsed.
type scope struct {
	seq      []*Node
	branches []*Node
	open     int // position of the '(' that opened the nested group
}

// parser holds the accumulators of a single left-to-right scan: the sequence
// being built, the completed alternatives at the current nesting level, and
// the saved state of every enclosing group.
type parser struct {
	expr     string
	seq      []*Node
	branches []*Node
	stack    []scope
}

func (p *parser) errorf(code ErrorCode, pos int, c rune) error {
	return &Error{Code: code, Pos: pos, Char: c, Expr: p.expr}
}

func (p *parser) parse(runes []rune, base int) (*Node, error) {
	escaped := false

	for i, c := range runes {
		pos := base + i

		if escaped {
			if !isReserved(c) {
				return nil, p.errorf(ErrInvalidEscape, pos, c)
			}
			p.seq = append(p.seq, Literal(c))
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '+', '*', '?':
			if err := p.quantify(c, pos); err != nil {
				return nil, err
			}
		case '(':
			p.stack = append(p.stack, scope{seq: p.seq, branches: p.branches, open: pos})
			p.seq, p.branches = nil, nil
		case ')':
			if err := p.closeGroup(pos); err != nil {
				return nil, err
			}
		case '|':
			if len(p.seq) == 0 {
				return nil, p.errorf(ErrNoPrev, pos, 0)
			}
			p.branches = append(p.branches, Concat(p.seq...))
			p.seq = nil
		case '.':
			p.seq = append(p.seq, Dot())
		default:
			p.seq = append(p.seq, Literal(c))
		}
	}

	if escaped {
		return nil, p.errorf(ErrInvalidEscape, base+len(runes), 0)
	}
	if n := len(p.stack); n > 0 {
		return nil, p.errorf(ErrNoRightParen, p.stack[n-1].open, 0)
	}
	if len(p.seq) > 0 {
		p.branches = append(p.branches, Concat(p.seq...))
	}
	root := foldAlternates(p.branches)
	if root == nil {
		return nil, p.errorf(ErrEmpty, base, 0)
	}
	return root, nil
}

// quantify wraps the last node of the current sequence.
func (p *parser) quantify(c rune, pos int) error {
	n := len(p.seq)
	if n == 0 {
		return p.errorf(ErrNoPrev, pos, 0)
	}
	prev := p.seq[n-1]
	switch c {
	case '+':
		p.seq[n-1] = Plus(prev)
	case '*':
		p.seq[n-1] = Star(prev)
	default:
		p.seq[n-1] = Quest(prev)
	}
	return nil
}

// closeGroup folds the innermost group into a single node and appends it to
// the enclosing sequence. An empty group contributes nothing.
func (p *parser) closeGroup(pos int) error {
	n := len(p.stack)
	if n == 0 {
		return p.errorf(ErrInvalidRightParen, pos, 0)
	}
	outer := p.stack[n-1]
	p.stack = p.stack[:n-1]

	if len(p.seq) > 0 {
		p.branches = append(p.branches, Concat(p.seq...))
	}
	group := foldAlternates(p.branches)

	p.seq, p.branches = outer.seq, outer.branches
	if group != nil {
		p.seq = append(p.seq, group)
	}
	return nil
}

// foldAlternates right-folds branches so the leftmost branch is the left
// operand of the outermost Alternate: [b1, b2, b3] -> Alternate(b1, Alternate(b2, b3)).
// It returns nil for no branches.
func foldAlternates(branches []*Node) *Node {
	n := len(branches)
	if n == 0 {
		return nil
	}
	node := branches[n-1]
	for i := n - 2; i >= 0; i-- {
		node = Alternate(branches[i], node)
	}
	return node
}
