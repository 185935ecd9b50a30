// Package syntax parses regular expression patterns into an abstract syntax
// tree.
//
// The supported syntax is deliberately small:
//
//	c       literal codepoint (any codepoint outside the reserved set)
//	.       any single codepoint
//	\c      escaped reserved codepoint, one of \ ( ) | + * ? .
//	xy      concatenation
//	x|y     alternation, leftmost alternative preferred
//	x*      zero or more, greedy
//	x+      one or more, greedy
//	x?      zero or one, greedy
//	(x)     grouping (non-capturing)
//
// Positions reported in errors are codepoint indexes into the pattern, not
// byte offsets.
package syntax

import (
	"strconv"
	"strings"
)

// Op identifies the kind of an AST node.
type Op uint8

const (
	// OpLiteral matches the single codepoint in Node.Rune.
	OpLiteral Op = iota + 1

	// OpDot matches any one codepoint.
	OpDot

	// OpConcat matches Sub in order.
	OpConcat

	// OpAlternate matches Sub[0] or, failing that, Sub[1].
	OpAlternate

	// OpStar matches Sub[0] zero or more times.
	OpStar

	// OpPlus matches Sub[0] one or more times.
	OpPlus

	// OpQuest matches Sub[0] zero or one time.
	OpQuest
)

// String returns the name of the op.
func (op Op) String() string {
	switch op {
	case OpLiteral:
		return "Literal"
	case OpDot:
		return "Dot"
	case OpConcat:
		return "Concat"
	case OpAlternate:
		return "Alternate"
	case OpStar:
		return "Star"
	case OpPlus:
		return "Plus"
	case OpQuest:
		return "Quest"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Node is a node of the syntax tree. Which fields are meaningful depends on Op:
//
//	OpLiteral              Rune
//	OpDot                  (none)
//	OpConcat               Sub, in source order
//	OpAlternate            Sub[0] (left, preferred), Sub[1] (right)
//	OpStar, OpPlus, OpQuest Sub[0]
//
// A tree is built once by the parser and never modified afterwards.
type Node struct {
	Op   Op
	Rune rune
	Sub  []*Node
}

// Literal returns a node matching r.
func Literal(r rune) *Node { return &Node{Op: OpLiteral, Rune: r} }

// Dot returns a node matching any codepoint.
func Dot() *Node { return &Node{Op: OpDot} }

// Concat returns a node matching subs in order.
func Concat(subs ...*Node) *Node { return &Node{Op: OpConcat, Sub: subs} }

// Alternate returns a node matching left or right, preferring left.
func Alternate(left, right *Node) *Node {
	return &Node{Op: OpAlternate, Sub: []*Node{left, right}}
}

// Star returns a node matching sub zero or more times.
func Star(sub *Node) *Node { return &Node{Op: OpStar, Sub: []*Node{sub}} }

// Plus returns a node matching sub one or more times.
func Plus(sub *Node) *Node { return &Node{Op: OpPlus, Sub: []*Node{sub}} }

// Quest returns a node matching sub zero or one time.
func Quest(sub *Node) *Node { return &Node{Op: OpQuest, Sub: []*Node{sub}} }

// MatchesEmpty reports whether n can match the empty string.
func (n *Node) MatchesEmpty() bool {
	switch n.Op {
	case OpConcat:
		for _, sub := range n.Sub {
			if !sub.MatchesEmpty() {
				return false
			}
		}
		return true
	case OpAlternate:
		for _, sub := range n.Sub {
			if sub.MatchesEmpty() {
				return true
			}
		}
		return false
	case OpStar, OpQuest:
		return true
	case OpPlus:
		return n.Sub[0].MatchesEmpty()
	default:
		return false
	}
}

// HasEmptyLoop reports whether n contains a Star or Plus whose body can match
// the empty string, such as (a*)* or (a|b?)+. A backtracking evaluator
// without memoization can loop forever on these.
func (n *Node) HasEmptyLoop() bool {
	if (n.Op == OpStar || n.Op == OpPlus) && n.Sub[0].MatchesEmpty() {
		return true
	}
	for _, sub := range n.Sub {
		if sub.HasEmptyLoop() {
			return true
		}
	}
	return false
}

// String renders the tree in a compact debugging form, for example
//
//	Concat[Literal('a'), Star(Concat[Literal('b')])]
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch n.Op {
	case OpLiteral:
		b.WriteString("Literal(")
		b.WriteString(strconv.QuoteRune(n.Rune))
		b.WriteByte(')')
	case OpDot:
		b.WriteString("Dot")
	case OpConcat:
		b.WriteString("Concat[")
		for i, sub := range n.Sub {
			if i > 0 {
				b.WriteString(", ")
			}
			sub.write(b)
		}
		b.WriteByte(']')
	default:
		b.WriteString(n.Op.String())
		b.WriteByte('(')
		for i, sub := range n.Sub {
			if i > 0 {
				b.WriteString(", ")
			}
			sub.write(b)
		}
		b.WriteByte(')')
	}
}

// Pattern renders the tree back into pattern syntax. Groups are rendered for
// every Concat below the root, so the output reparses to an equal tree.
func (n *Node) Pattern() string {
	var b strings.Builder
	n.writePattern(&b, true)
	return b.String()
}

func (n *Node) writePattern(b *strings.Builder, top bool) {
	switch n.Op {
	case OpLiteral:
		if isReserved(n.Rune) {
			b.WriteByte('\\')
		}
		b.WriteRune(n.Rune)
	case OpDot:
		b.WriteByte('.')
	case OpConcat:
		if !top {
			b.WriteByte('(')
		}
		for _, sub := range n.Sub {
			sub.writePattern(b, false)
		}
		if !top {
			b.WriteByte(')')
		}
	case OpAlternate:
		if !top {
			b.WriteByte('(')
		}
		n.writeAlternatives(b)
		if !top {
			b.WriteByte(')')
		}
	case OpStar, OpPlus, OpQuest:
		n.Sub[0].writePattern(b, false)
		b.WriteByte(quantifierByte(n.Op))
	}
}

// writeAlternatives flattens the right-nested alternation chain so that
// a|b|c renders without extra groups.
func (n *Node) writeAlternatives(b *strings.Builder) {
	for cur := n; ; {
		cur.Sub[0].writeBranch(b)
		b.WriteByte('|')
		right := cur.Sub[1]
		if right.Op != OpAlternate {
			right.writeBranch(b)
			return
		}
		cur = right
	}
}

func (n *Node) writeBranch(b *strings.Builder) {
	if n.Op == OpConcat {
		for _, sub := range n.Sub {
			sub.writePattern(b, false)
		}
		return
	}
	n.writePattern(b, false)
}

func quantifierByte(op Op) byte {
	switch op {
	case OpStar:
		return '*'
	case OpPlus:
		return '+'
	default:
		return '?'
	}
}
