package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/errz"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"arg", "", []string{"eval", "2 + 3 * 4"}, "14\n"},
		{"code flag", "", []string{"eval", "-c", "(2 + 3) * 4", "--backend", "stack", "--mode", "trusted"}, "20\n"},
		{"stdin", "10 - 2 - 3\n", []string{"eval", "--stdin", "-b", "rpn"}, "5\n"},
		{"root command", "", []string{"0 - - - 5"}, "-5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			require.Nil(t, err)
			require.Equal(t, tt.expected, out)
		})
	}
}

func TestEvalJSON(t *testing.T) {
	out, err := execute(t, "", "eval", "-o", "json", "20 / 4")
	require.Nil(t, err)
	require.Contains(t, out, `"value": 5`)
	require.Contains(t, out, `"backend": "register"`)
}

func TestEvalYAML(t *testing.T) {
	out, err := execute(t, "", "eval", "-o", "yaml", "-b", "stack", "20 / 4")
	require.Nil(t, err)
	require.Contains(t, out, "value: 5\n")
	require.Contains(t, out, "backend: stack\n")

	out, err = execute(t, "", "version", "-o", "yaml")
	require.Nil(t, err)
	require.Contains(t, out, "version: dev\n")
}

func TestEvalAll(t *testing.T) {
	out, err := execute(t, "", "eval", "--all", "9223372036854775807 + 1")
	require.Nil(t, err)
	require.Contains(t, out, "integer overflow")
	require.Contains(t, out, "-9223372036854775808")
	require.Equal(t, 3, strings.Count(out, "trusted"))
}

func TestEvalErrors(t *testing.T) {
	_, err := execute(t, "", "eval", "-c", "1", "2")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "", "eval")
	require.EqualError(t, err, "no input provided")

	_, err = execute(t, "", "eval", "5 / 0")
	require.ErrorIs(t, err, errz.ErrDivisionByZero)

	_, err = execute(t, "", "eval", "--backend", "heap", "1")
	require.ErrorContains(t, err, "unknown backend")

	_, err = execute(t, "", "eval", "-o", "xml", "1")
	require.ErrorContains(t, err, "unknown output format")
}

func TestEnvAndConfig(t *testing.T) {
	t.Setenv("CALC_MODE", "bogus")
	_, err := execute(t, "", "eval", "1")
	require.ErrorContains(t, err, "unknown mode")

	t.Setenv("CALC_MODE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.yaml")
	require.Nil(t, os.WriteFile(path, []byte("backend: stack\nmode: trusted\n"), 0o644))
	out, err := execute(t, "", "eval", "--config", path, "9223372036854775807 + 1")
	require.Nil(t, err)
	require.Equal(t, "-9223372036854775808\n", out)
}

func TestDisCommand(t *testing.T) {
	out, err := execute(t, "", "dis", "--backend", "stack", "40000 + 2")
	require.Nil(t, err)
	require.Contains(t, out, "LOAD_CONST")
	require.Contains(t, out, "depth 1, 40000")

	out, err = execute(t, "", "dis", "-o", "json", "1 + 2")
	require.Nil(t, err)
	require.Contains(t, out, `"storage_size": 2`)
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "", "check", "2 + 3 * 4")
	require.Nil(t, err)
	require.Contains(t, out, "ok")
	require.Contains(t, out, "sizes (rpn/stack/register): 3 / 3 / 3")

	out, err = execute(t, "", "check", "-o", "json", "1 / 0")
	require.Nil(t, err)
	require.Contains(t, out, "division by zero")
}

func TestFuzzAndGenCommands(t *testing.T) {
	out, err := execute(t, "", "fuzz", "--count", "50", "--seed", "9", "--log-level", "error")
	require.Nil(t, err)
	require.Contains(t, out, "50 checked")
	require.Contains(t, out, "0 failed")

	out, err = execute(t, "", "gen", "--seed", "3", "--count", "4")
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		_, err := calc.Parse(context.Background(), line)
		require.Nil(t, err, line)
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "", "bench", "--iterations", "5", "--warmup", "0", "-o", "json", "1 + 2")
	require.Nil(t, err)
	require.Contains(t, out, `"name": "rpn/checked"`)
	require.Contains(t, out, `"run_id"`)

	out, err = execute(t, "", "bench", "--iterations", "5", "--histogram", "1 + 2")
	require.Nil(t, err)
	require.Contains(t, out, "register/trusted")
	require.Contains(t, out, "OPS/SEC")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.Nil(t, err)
	require.Equal(t, "calc dev (commit unknown, built unknown)\n", out)
}

func TestRepl(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("1 + 2\n\n5 / 0\n(1\n-(7)\n")
	err := repl(context.Background(), in, &out, &errOut, calc.Stack, calc.Checked)
	require.Nil(t, err)
	require.Equal(t, "> 3\n> > > > -7\n> \n", out.String())
	require.Contains(t, errOut.String(), "division by zero")
	require.Contains(t, errOut.String(), "end of input")
}
