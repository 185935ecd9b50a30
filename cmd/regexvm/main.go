// regexvm - print lines matching a pattern
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/coregx/regexvm"
	"github.com/coregx/regexvm/internal/config"
	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/syntax"
)

// Exit statuses, as in grep.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

var log = commonlog.GetLogger("regexvm.cmd")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath   string
	engine       regexvm.Engine
	anchors      bool
	onlyMatching bool
	lineNumbers  bool
	dump         bool
	emit         string
	program      string
	stepLimit    int
	verbose      bool

	// set records which flags appeared on the command line.
	set map[string]bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("regexvm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Configuration file (default: nearest "+config.FileName+")")
	fs.TextVar(&opts.engine, "engine", regexvm.EngineBacktrack, "Evaluator: backtrack or pikevm")
	fs.BoolVar(&opts.anchors, "anchors", false, "Treat a leading '^' and trailing '$' as anchors")
	fs.BoolVar(&opts.onlyMatching, "o", false, "Print only the matched part of each line")
	fs.BoolVar(&opts.lineNumbers, "n", false, "Prefix each output line with its line number")
	fs.BoolVar(&opts.dump, "dump", false, "Print the syntax tree and program listing")
	fs.StringVar(&opts.emit, "emit", "", "Write the compiled program to `FILE` (CBOR)")
	fs.StringVar(&opts.program, "program", "", "Load a compiled program from `FILE` instead of compiling PATTERN")
	fs.IntVar(&opts.stepLimit, "step-limit", 0, "Maximum evaluator steps per start offset (0: unlimited)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose (debug) logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: regexvm [options] PATTERN [FILE...]\n")
		fmt.Fprintf(stderr, "       regexvm [options] -program PROG [FILE...]\n\n")
		fmt.Fprintf(stderr, "Prints each line of the FILEs (standard input if none) that contains a match.\n")
		fmt.Fprintf(stderr, "With -dump or -emit and no FILE, no input is read.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExit status is 0 if a line matched, 1 if none did, 2 on error.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		return exitError
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	file, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "regexvm: %v\n", err)
		return exitError
	}
	opts.apply(file)
	configureLogging(file.Log)

	positional := fs.Args()
	pattern := ""
	if opts.program == "" {
		if len(positional) == 0 {
			fs.Usage()
			return exitError
		}
		pattern, positional = positional[0], positional[1:]
	}

	re, err := compile(pattern, opts.program, file.RegexConfig())
	if err != nil {
		fmt.Fprintf(stderr, "regexvm: %v\n", err)
		return exitError
	}
	if file.Path != "" {
		log.Debugf("using configuration %s", file.Path)
	}

	if opts.dump {
		if err := dump(stdout, re, pattern, file.Match.Anchors); err != nil {
			fmt.Fprintf(stderr, "regexvm: %v\n", err)
			return exitError
		}
	}
	if opts.emit != "" {
		if err := emit(opts.emit, re.Program()); err != nil {
			fmt.Fprintf(stderr, "regexvm: %v\n", err)
			return exitError
		}
	}
	if len(positional) == 0 && (opts.dump || opts.emit != "") {
		return exitMatch
	}

	g := &grepper{
		re:           re,
		out:          stdout,
		onlyMatching: file.Output.OnlyMatching,
		lineNumbers:  file.Output.LineNumbers,
		names:        len(positional) > 1,
	}

	status := exitNoMatch
	if len(positional) == 0 {
		positional = []string{"-"}
	}
	for _, name := range positional {
		matched, err := g.grepPath(name, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "regexvm: %v\n", err)
			status = exitError
			continue
		}
		if matched && status != exitError {
			status = exitMatch
		}
	}
	return status
}

// loadConfig loads the named configuration file, or the nearest
// regexvm.toml when path is empty. Defaults apply when there is none.
func loadConfig(path string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	file, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if file == nil {
		file = config.Default()
	}
	return file, nil
}

// apply overrides file with the flags given on the command line.
func (o *options) apply(file *config.File) {
	if o.set["engine"] {
		file.Match.Engine = o.engine
	}
	if o.set["anchors"] {
		file.Match.Anchors = o.anchors
	}
	if o.set["step-limit"] {
		file.Match.StepLimit = o.stepLimit
	}
	if o.set["o"] {
		file.Output.OnlyMatching = o.onlyMatching
	}
	if o.set["n"] {
		file.Output.LineNumbers = o.lineNumbers
	}
	if o.verbose {
		file.Log.Verbosity = 2
	}
}

func configureLogging(l config.Log) {
	var path *string
	if l.File != "" {
		path = &l.File
	}
	commonlog.Configure(l.Verbosity, path)
}

// compile builds the expression from pattern, or from the program stored in
// programPath when that is set.
func compile(pattern, programPath string, cfg regexvm.Config) (*regexvm.Regex, error) {
	if programPath == "" {
		return regexvm.CompileWithConfig(pattern, cfg)
	}

	data, err := os.ReadFile(programPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read program: %w", err)
	}
	prog, err := nfa.UnmarshalProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", programPath, err)
	}
	log.Debugf("loaded %s: %d instructions", programPath, prog.Len())
	return regexvm.FromProgram(prog, cfg)
}

// dump prints the syntax tree (when compiled from a pattern) followed by the
// program listing.
func dump(w io.Writer, re *regexvm.Regex, pattern string, anchors bool) error {
	if pattern != "" {
		var flags syntax.Flags
		if anchors {
			flags |= syntax.Anchors
		}
		tree, err := syntax.ParseWithFlags(pattern, flags)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", tree.Root); err != nil {
			return err
		}
	}
	return nfa.Disassemble(w, re.Program())
}

func emit(path string, prog *nfa.Program) error {
	data, err := nfa.MarshalProgram(prog)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write program: %w", err)
	}
	log.Infof("wrote %s (%d bytes)", path, len(data))
	return nil
}
