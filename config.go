package regexvm

import (
	"fmt"
	"strings"
)

// Engine selects the evaluator that executes compiled programs.
type Engine uint8

const (
	// EngineBacktrack explores alternatives depth-first. It is the default.
	EngineBacktrack Engine = iota

	// EnginePikeVM advances all alternatives in lockstep and runs in time
	// linear in the input. It reports the same matches as EngineBacktrack.
	EnginePikeVM
)

// String returns the engine name as accepted by ParseEngine.
func (e Engine) String() string {
	switch e {
	case EngineBacktrack:
		return "backtrack"
	case EnginePikeVM:
		return "pikevm"
	default:
		return fmt.Sprintf("Engine(%d)", e)
	}
}

// ParseEngine parses an engine name ("backtrack" or "pikevm").
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "backtrack", "backtracker":
		return EngineBacktrack, nil
	case "pikevm":
		return EnginePikeVM, nil
	default:
		return 0, &ConfigError{Field: "Engine", Message: fmt.Sprintf("unknown engine %q", name)}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Engine) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so engines can be named
// in configuration files.
func (e *Engine) UnmarshalText(text []byte) error {
	parsed, err := ParseEngine(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Config controls compilation and matching.
//
// Example:
//
//	config := regexvm.DefaultConfig()
//	config.Engine = regexvm.EnginePikeVM
//	re, err := regexvm.CompileWithConfig("(a|b)*c", config)
type Config struct {
	// Engine selects the evaluator.
	// Default: EngineBacktrack
	Engine Engine

	// Anchors enables '^' and '$' at the very start and end of the pattern.
	// When false they are ordinary literals.
	// Default: false
	Anchors bool

	// EnablePrefilter enables literal-based prefiltering: offsets at which
	// none of the pattern's required prefixes begin are skipped without
	// running the evaluator. Results are the same either way. Not used
	// when StepLimit is set, since every offset then counts against the
	// budget.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals extracted for the
	// prefilter. Patterns needing more get no prefilter.
	// Default: 64
	MaxLiterals int

	// StepLimit bounds the instructions executed per start offset. Zero
	// means unlimited. Exceeding it fails the search with
	// nfa.ErrStepLimitExceeded.
	// Default: 0
	StepLimit int

	// Memoize makes the backtracker remember visited states, bounding its
	// work and making loops over empty-matching bodies such as (a*)*
	// terminate. Patterns containing such a loop are always memoized by
	// Compile. Ignored by EnginePikeVM.
	// Default: false
	Memoize bool
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() Config {
	return Config{
		Engine:          EngineBacktrack,
		EnablePrefilter: true,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - Engine: EngineBacktrack or EnginePikeVM
//   - MaxLiterals: 1 to 1,000 (when EnablePrefilter is set)
//   - StepLimit: 0 or more
func (c Config) Validate() error {
	if c.Engine != EngineBacktrack && c.Engine != EnginePikeVM {
		return &ConfigError{
			Field:   "Engine",
			Message: fmt.Sprintf("unknown engine %d", c.Engine),
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.StepLimit < 0 {
		return &ConfigError{
			Field:   "StepLimit",
			Message: "must not be negative",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexvm: invalid config: " + e.Field + ": " + e.Message
}
