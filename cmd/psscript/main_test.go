package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnsjas/go-psscript/internal/fakepwsh"
)

func TestMain(m *testing.M) {
	if fakepwsh.Enabled() {
		os.Exit(fakepwsh.Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = execute(context.Background(), args, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCLI_Command(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, stderr := runCLI(t, "", "--interpreter", exe, "-c", "echo hello world")
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello world\n", stdout)
	assert.Empty(t, stderr)
}

func TestCLI_SuccessKeepsStreamsApart(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, stderr := runCLI(t, "echo result\nerr warning\n", "--interpreter", exe)
	assert.Equal(t, 0, code)
	assert.Equal(t, "result\n", stdout)
	assert.Equal(t, "warning\n", stderr)
}

func TestCLI_StdinScript(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, _ := runCLI(t, "echo one\necho two\n", "--interpreter", exe)
	assert.Equal(t, 0, code)
	assert.Equal(t, "one\ntwo\n", stdout)
}

func TestCLI_ScriptFile(t *testing.T) {
	exe := fakepwsh.Enable(t)
	path := writeScript(t, t.TempDir(), "hello.ps1", "echo from file\n")

	code, stdout, _ := runCLI(t, "", "--interpreter", exe, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "from file\n", stdout)
}

func TestCLI_Flags(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, _ := runCLI(t, "",
		"--interpreter", exe,
		"--no-profile=false",
		"--flag=-ExecutionPolicy", "--flag=Bypass",
		"-c", "args",
	)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-NonInteractive -ExecutionPolicy Bypass -Command -\n", stdout)
}

func TestCLI_Echo(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, _ := runCLI(t, "", "--interpreter", exe, "--echo", "-c", "echo hi")
	assert.Equal(t, 0, code)
	assert.Equal(t, "echo hi\nhi\n", stdout)
}

func TestCLI_ScriptFailureExitCode(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, stdout, stderr := runCLI(t, "echo partial\nerr broken\nexit 3\n", "--interpreter", exe)
	assert.Equal(t, 3, code)
	assert.Equal(t, "partial\n", stdout)
	assert.Equal(t, "broken\n", stderr)
}

func TestCLI_MultipleFiles(t *testing.T) {
	exe := fakepwsh.Enable(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.ps1", "echo a\n")
	b := writeScript(t, dir, "b.ps1", "echo b\nexit 2\n")
	c := writeScript(t, dir, "c.ps1", "echo c\n")

	code, stdout, _ := runCLI(t, "", "--interpreter", exe, "--parallel", "2", a, b, c)
	assert.Equal(t, 2, code)
	assert.Equal(t,
		"==> "+a+" <==\na\n==> "+b+" <==\nb\n==> "+c+" <==\nc\n",
		stdout)
}

func TestCLI_Timeout(t *testing.T) {
	exe := fakepwsh.Enable(t)

	code, _, stderr := runCLI(t, "", "--interpreter", exe, "--timeout", "100ms", "-c", "sleep 10s")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: pwsh: wait:")
}

func TestCLI_InterpreterNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("SYSTEMROOT", t.TempDir())

	code, stdout, stderr := runCLI(t, "", "--edition", "core", "-c", "echo hi")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: ")
}

func TestCLI_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "command with files",
			args: []string{"-c", "echo hi", "script.ps1"},
			want: "--command cannot be combined with script files",
		},
		{
			name: "bad edition",
			args: []string{"--edition", "classic", "-c", "echo hi"},
			want: "classic",
		},
		{
			name: "bad log level",
			args: []string{"--log-level", "loud", "-c", "echo hi"},
			want: `invalid log level "loud"`,
		},
		{
			name: "missing file",
			args: []string{filepath.Join(t.TempDir(), "missing.ps1")},
			want: "read script:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestCLI_LogFileRedacts(t *testing.T) {
	exe := fakepwsh.Enable(t)
	logPath := filepath.Join(t.TempDir(), "psscript.log")

	code, _, _ := runCLI(t, "",
		"--interpreter", exe,
		"--log-level", "debug",
		"--log-file", logPath,
		"-c", "echo -Password hunter2",
	)
	require.Equal(t, 0, code)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "run_id=")
	assert.Contains(t, string(b), "[REDACTED]")
	assert.NotContains(t, string(b), "hunter2")
}

func TestCLI_EnvDefaults(t *testing.T) {
	t.Setenv(envLogLevel, "loud")

	code, _, stderr := runCLI(t, "", "-c", "echo hi")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `invalid log level "loud"`)
}
