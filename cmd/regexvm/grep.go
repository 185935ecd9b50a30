package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/coregx/regexvm"
)

// maxLineSize bounds the length of a single input line.
const maxLineSize = 16 << 20

// grepper prints the lines of its inputs that contain a match.
type grepper struct {
	re           *regexvm.Regex
	out          io.Writer
	onlyMatching bool
	lineNumbers  bool
	names        bool // prefix output with the input name
}

// grepPath scans the named file, or stdin for "-".
func (g *grepper) grepPath(name string, stdin io.Reader) (bool, error) {
	if name == "-" {
		return g.grep(stdin, "(standard input)")
	}

	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return g.grep(f, name)
}

// grep reports whether any line of r matched. An evaluation error stops the
// scan of r.
func (g *grepper) grep(r io.Reader, name string) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	matched := false
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()

		text := line
		if g.onlyMatching {
			loc, err := g.re.FindStringIndex(line)
			if err != nil {
				return matched, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			if loc == nil {
				continue
			}
			text = line[loc[0]:loc[1]]
		} else {
			ok, err := g.re.MatchString(line)
			if err != nil {
				return matched, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			if !ok {
				continue
			}
		}

		matched = true
		if err := g.print(name, lineNo, text); err != nil {
			return matched, err
		}
	}
	if err := scanner.Err(); err != nil {
		return matched, fmt.Errorf("%s: %w", name, err)
	}
	return matched, nil
}

func (g *grepper) print(name string, lineNo int, text string) error {
	var err error
	switch {
	case g.names && g.lineNumbers:
		_, err = fmt.Fprintf(g.out, "%s:%d:%s\n", name, lineNo, text)
	case g.names:
		_, err = fmt.Fprintf(g.out, "%s:%s\n", name, text)
	case g.lineNumbers:
		_, err = fmt.Fprintf(g.out, "%d:%s\n", lineNo, text)
	default:
		_, err = fmt.Fprintln(g.out, text)
	}
	return err
}
