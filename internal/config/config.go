// Package config handles regexvm.toml configuration for the command-line tool.
//
// A configuration file sets defaults for matching, output and logging:
//
//	[match]
//	engine = "pikevm"
//	anchors = true
//	prefilter = true
//	step-limit = 100000
//	memoize = false
//	max-literals = 64
//
//	[output]
//	only-matching = false
//	line-numbers = false
//
//	[log]
//	verbosity = 0
//	file = ""
//
// Command-line flags override values from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/coregx/regexvm"
)

// FileName is the name FindAndLoad looks for.
const FileName = "regexvm.toml"

// File represents a regexvm.toml configuration.
type File struct {
	Match  Match  `toml:"match"`
	Output Output `toml:"output"`
	Log    Log    `toml:"log"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Match configures compilation and matching.
type Match struct {
	Engine      regexvm.Engine `toml:"engine"`
	Anchors     bool           `toml:"anchors"`
	Prefilter   bool           `toml:"prefilter"`
	StepLimit   int            `toml:"step-limit"`
	Memoize     bool           `toml:"memoize"`
	MaxLiterals int            `toml:"max-literals"`
}

// Output configures what is printed for matching lines.
type Output struct {
	OnlyMatching bool `toml:"only-matching"`
	LineNumbers  bool `toml:"line-numbers"`
}

// Log configures logging. Higher verbosity enables more detailed levels;
// 2 includes the evaluator step trace. An empty File logs to stderr.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is found.
func Default() *File {
	def := regexvm.DefaultConfig()
	return &File{
		Match: Match{
			Engine:      def.Engine,
			Anchors:     def.Anchors,
			Prefilter:   def.EnablePrefilter,
			StepLimit:   def.StepLimit,
			Memoize:     def.Memoize,
			MaxLiterals: def.MaxLiterals,
		},
	}
}

// Load parses the configuration file at path. Keys missing from the file keep
// their defaults; unknown keys are an error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	f := Default()
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := f.RegexConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	f.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return f, nil
}

// FindAndLoad walks up from startDir to find a regexvm.toml file,
// then loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*File, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// RegexConfig returns the library configuration described by the [match]
// section.
func (f *File) RegexConfig() regexvm.Config {
	return regexvm.Config{
		Engine:          f.Match.Engine,
		Anchors:         f.Match.Anchors,
		EnablePrefilter: f.Match.Prefilter,
		MaxLiterals:     f.Match.MaxLiterals,
		StepLimit:       f.Match.StepLimit,
		Memoize:         f.Match.Memoize,
	}
}
