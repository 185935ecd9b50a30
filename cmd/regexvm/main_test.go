package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/regexvm/internal/config"
	"github.com/coregx/regexvm/nfa"
)

// runCLI runs the command with an isolated configuration file holding
// configText, so no regexvm.toml above the working directory is picked up.
func runCLI(t *testing.T, configText, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), config.FileName)
	assert.NilError(t, os.WriteFile(cfgPath, []byte(configText), 0o644))

	var out, errOut bytes.Buffer
	code = run(append([]string{"-config", cfgPath}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sample = "abc\nxyz\nbbbc\nあいう\n"

func TestRun_Grep(t *testing.T) {
	file := writeInput(t, "input.txt", sample)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"lines", []string{"b+c", file}, exitMatch, "abc\nbbbc\n"},
		{"only matching", []string{"-o", "b+c", file}, exitMatch, "bc\nbbbc\n"},
		{"line numbers", []string{"-n", "b+c", file}, exitMatch, "1:abc\n3:bbbc\n"},
		{"multibyte", []string{"-o", "い.", file}, exitMatch, "いう\n"},
		{"no match", []string{"qq", file}, exitNoMatch, ""},
		{"pikevm", []string{"-engine", "pikevm", "x(y|z)+", file}, exitMatch, "xyz\n"},
		{"anchors", []string{"-anchors", "^b+c$", file}, exitMatch, "bbbc\n"},
		{"anchors off", []string{"^b", file}, exitNoMatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, "", "", tt.args...)
			assert.Equal(t, code, tt.wantCode, "stderr: %s", errOut)
			assert.Equal(t, out, tt.wantOut)
		})
	}
}

func TestRun_Stdin(t *testing.T) {
	code, out, _ := runCLI(t, "", "one\ntwo\nthree\n", "t.o")
	assert.Equal(t, code, exitMatch)
	assert.Equal(t, out, "two\n")
}

func TestRun_MultipleFiles(t *testing.T) {
	a := writeInput(t, "a.txt", "apple\nbanana\n")
	b := writeInput(t, "b.txt", "cherry\nplum\n")

	code, out, _ := runCLI(t, "", "", "an|pl", a, b)
	assert.Equal(t, code, exitMatch)
	assert.Equal(t, out, a+":apple\n"+a+":banana\n"+b+":plum\n")
}

func TestRun_MissingFile(t *testing.T) {
	file := writeInput(t, "input.txt", sample)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	code, out, errOut := runCLI(t, "", "", "abc", missing, file)
	assert.Equal(t, code, exitError)
	assert.Equal(t, out, file+":abc\n")
	assert.Assert(t, strings.Contains(errOut, "missing.txt"), errOut)
}

func TestRun_Errors(t *testing.T) {
	file := writeInput(t, "input.txt", "aaaaaaaaaaaaaaaaaaaaaaaaac\n")

	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{"no pattern", "", nil, "Usage"},
		{"parse error", "", []string{"(ab", file}, "error parsing regexp"},
		{"bad engine flag", "", []string{"-engine", "dfa", "a", file}, `unknown engine "dfa"`},
		{"bad config", "[match]\nengine = 3", []string{"a", file}, "parse error"},
		{"negative step limit", "", []string{"-step-limit", "-1", "a", file}, "StepLimit"},
		{"step limit exceeded", "", []string{"-step-limit", "50", "(a|a)*b", file}, "step limit exceeded"},
		{"missing program", "", []string{"-program", filepath.Join(t.TempDir(), "none.prog")}, "cannot read program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.config, "", tt.args...)
			assert.Equal(t, code, exitError)
			assert.Assert(t, strings.Contains(errOut, tt.wantErr), "stderr: %s", errOut)
		})
	}
}

func TestRun_Config(t *testing.T) {
	file := writeInput(t, "input.txt", sample)
	cfg := "[match]\nengine = \"pikevm\"\nanchors = true\n\n[output]\nline-numbers = true\n"

	code, out, _ := runCLI(t, cfg, "", "^x", file)
	assert.Equal(t, code, exitMatch)
	assert.Equal(t, out, "2:xyz\n")

	// Flags override the file.
	code, out, _ = runCLI(t, cfg, "", "-n=false", "-anchors=false", "c$", file)
	assert.Equal(t, code, exitNoMatch)
	assert.Equal(t, out, "")
}

func TestRun_Dump(t *testing.T) {
	code, out, _ := runCLI(t, "", "", "-dump", "a*")
	assert.Equal(t, code, exitMatch)
	assert.Equal(t, out, "Concat[Star(Literal('a'))]\n\n"+
		"0000: split 0001, 0003\n"+
		"0001: char 'a'\n"+
		"0002: jump 0000\n"+
		"0003: match\n")
}

func TestRun_EmitAndLoadProgram(t *testing.T) {
	progPath := filepath.Join(t.TempDir(), "bc.prog")
	code, out, errOut := runCLI(t, "", "", "-emit", progPath, "b+c")
	assert.Equal(t, code, exitMatch, errOut)
	assert.Equal(t, out, "")

	data, err := os.ReadFile(progPath)
	assert.NilError(t, err)
	prog, err := nfa.UnmarshalProgram(data)
	assert.NilError(t, err)
	assert.Equal(t, prog.Len(), 4)

	file := writeInput(t, "input.txt", sample)
	code, out, errOut = runCLI(t, "", "", "-program", progPath, "-o", file)
	assert.Equal(t, code, exitMatch, errOut)
	assert.Equal(t, out, "bc\nbbbc\n")
}

func TestRun_CorruptProgram(t *testing.T) {
	progPath := writeInput(t, "bad.prog", "not cbor")
	code, _, errOut := runCLI(t, "", "", "-program", progPath)
	assert.Equal(t, code, exitError)
	assert.Assert(t, strings.Contains(errOut, "unmarshal program"), errOut)
}
