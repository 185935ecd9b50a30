package nfa

import (
	"fmt"

	"github.com/coregx/regexvm/syntax"
)

// Compiler lowers syntax trees into Programs.
//
// Code generation is a structural recursion over the tree. Each construct
// lays out its instructions as follows (L1, L2, L3 are addresses):
//
//	e?      split L1, L2      e*  L1: split L2, L3     e+  L1: <e>
//	    L1: <e>                   L2: <e>                  split L1, L2
//	    L2:                           jump L1              L2:
//	                              L3:
//
//	e1|e2       split L1, L2
//	        L1: <e1>
//	            jump L3
//	        L2: <e2>
//	        L3:
//
// followed by a single match instruction at the end of the program.
type Compiler struct {
	builder *Builder
}

// NewCompiler creates a new compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile compiles ast into a Program. It is a shorthand for
// NewCompiler().Compile(ast).
func Compile(ast *syntax.Node) (*Program, error) {
	return NewCompiler().Compile(ast)
}

// Compile compiles ast into a Program. The same tree always yields the same
// program.
func (c *Compiler) Compile(ast *syntax.Node) (*Program, error) {
	c.builder = NewBuilder()
	return c.generate(ast)
}

// generate emits ast followed by the final match into the current builder.
func (c *Compiler) generate(ast *syntax.Node) (*Program, error) {
	if err := c.compile(ast); err != nil {
		return nil, err
	}
	if _, err := c.builder.AddMatch(); err != nil {
		return nil, err
	}
	return c.builder.Build()
}

func (c *Compiler) compile(n *syntax.Node) error {
	if n == nil {
		return &CodeGenError{Kind: ErrInternalInvariant, Addr: c.builder.PC(), Detail: "nil node"}
	}

	switch n.Op {
	case syntax.OpLiteral:
		_, err := c.builder.AddLiteral(n.Rune)
		return err
	case syntax.OpDot:
		_, err := c.builder.AddDot()
		return err
	case syntax.OpConcat:
		for _, sub := range n.Sub {
			if err := c.compile(sub); err != nil {
				return err
			}
		}
		return nil
	case syntax.OpAlternate:
		if len(n.Sub) != 2 {
			return c.arityError(n, 2)
		}
		return c.compileAlternate(n.Sub[0], n.Sub[1])
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest:
		if len(n.Sub) != 1 {
			return c.arityError(n, 1)
		}
		switch n.Op {
		case syntax.OpStar:
			return c.compileStar(n.Sub[0])
		case syntax.OpPlus:
			return c.compilePlus(n.Sub[0])
		default:
			return c.compileQuest(n.Sub[0])
		}
	default:
		return &CodeGenError{
			Kind:   ErrInternalInvariant,
			Addr:   c.builder.PC(),
			Detail: fmt.Sprintf("unsupported syntax op %v", n.Op),
		}
	}
}

func (c *Compiler) arityError(n *syntax.Node, want int) error {
	return &CodeGenError{
		Kind:   ErrInternalInvariant,
		Addr:   c.builder.PC(),
		Detail: fmt.Sprintf("%v node has %d children, want %d", n.Op, len(n.Sub), want),
	}
}

// compileQuest: take the body, or skip to after it.
func (c *Compiler) compileQuest(e *syntax.Node) error {
	body, err := c.builder.Next()
	if err != nil {
		return err
	}
	split, err := c.builder.AddSplit(body, InvalidAddr)
	if err != nil {
		return err
	}

	if err := c.compile(e); err != nil {
		return err
	}

	return c.builder.PatchSplit(split, c.builder.PC())
}

// compileStar: loop through the body via a back jump to the split, exiting
// through the split's second target.
func (c *Compiler) compileStar(e *syntax.Node) error {
	body, err := c.builder.Next()
	if err != nil {
		return err
	}
	split, err := c.builder.AddSplit(body, InvalidAddr)
	if err != nil {
		return err
	}

	if err := c.compile(e); err != nil {
		return err
	}
	if _, err := c.builder.AddJump(split); err != nil {
		return err
	}

	return c.builder.PatchSplit(split, c.builder.PC())
}

// compilePlus: the body once unconditionally, then optionally again.
func (c *Compiler) compilePlus(e *syntax.Node) error {
	start := c.builder.PC()
	if err := c.compile(e); err != nil {
		return err
	}

	exit, err := c.builder.Next()
	if err != nil {
		return err
	}
	_, err = c.builder.AddSplit(start, exit)
	return err
}

// compileAlternate: try e1; if it fails, e2. The end of e1 jumps over e2.
func (c *Compiler) compileAlternate(e1, e2 *syntax.Node) error {
	first, err := c.builder.Next()
	if err != nil {
		return err
	}
	split, err := c.builder.AddSplit(first, InvalidAddr)
	if err != nil {
		return err
	}

	if err := c.compile(e1); err != nil {
		return err
	}
	jump, err := c.builder.AddJump(InvalidAddr)
	if err != nil {
		return err
	}

	if err := c.builder.PatchSplit(split, c.builder.PC()); err != nil {
		return err
	}
	if err := c.compile(e2); err != nil {
		return err
	}

	return c.builder.PatchJump(jump, c.builder.PC())
}
