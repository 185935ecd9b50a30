package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/regexvm"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, `
[match]
engine = "pikevm"
anchors = true
step-limit = 5000

[output]
only-matching = true

[log]
verbosity = 2
file = "regexvm.log"
`)

	f, err := Load(path)
	assert.NilError(t, err)

	want := regexvm.Config{
		Engine:          regexvm.EnginePikeVM,
		Anchors:         true,
		EnablePrefilter: true, // default kept
		MaxLiterals:     64,   // default kept
		StepLimit:       5000,
	}
	if diff := cmp.Diff(want, f.RegexConfig()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Assert(t, f.Output.OnlyMatching)
	assert.Assert(t, !f.Output.LineNumbers)
	assert.Equal(t, f.Log.Verbosity, 2)
	assert.Equal(t, f.Log.File, "regexvm.log")
	assert.Equal(t, f.Path, path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[match\nengine = 1", "parse error"},
		{"unknown engine", "[match]\nengine = \"dfa\"", `unknown engine "dfa"`},
		{"unknown key", "[match]\nengines = \"pikevm\"", "unknown keys"},
		{"invalid value", "[match]\nstep-limit = -1", "StepLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.content)
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_InvalidConfigIsConfigError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[match]\nmax-literals = 0")
	_, err := Load(path)

	var cfgErr *regexvm.ConfigError
	assert.Assert(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, cfgErr.Field, "MaxLiterals")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Assert(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "[match]\nmemoize = true\n")
	nested := filepath.Join(root, "a", "b")
	assert.NilError(t, os.MkdirAll(nested, 0o755))

	f, err := FindAndLoad(nested)
	assert.NilError(t, err)
	assert.Assert(t, f != nil)
	assert.Assert(t, f.Match.Memoize)
	assert.Equal(t, f.Path, filepath.Join(root, FileName))
}

func TestDefault(t *testing.T) {
	if diff := cmp.Diff(regexvm.DefaultConfig(), Default().RegexConfig()); diff != "" {
		t.Errorf("default mismatch (-want +got):\n%s", diff)
	}
}
