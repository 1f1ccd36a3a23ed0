package pwsh

import (
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/smnsjas/go-psscript/launcher"
)

// Output is the captured result of a finished interpreter process.
type Output struct {
	rawStdout []byte
	rawStderr []byte
	stdout    string
	stderr    string
	exitCode  int
	success   bool
}

func newOutput(exit *launcher.Exit) *Output {
	return &Output{
		rawStdout: exit.Stdout,
		rawStderr: exit.Stderr,
		stdout:    decode(exit.Stdout),
		stderr:    decode(exit.Stderr),
		exitCode:  exit.ExitCode,
		success:   exit.Success,
	}
}

// Stdout returns the decoded standard output. ok is false when the
// interpreter wrote nothing, which differs from writing an empty line.
func (o *Output) Stdout() (s string, ok bool) {
	return o.stdout, len(o.rawStdout) > 0
}

// Stderr returns the decoded standard error. ok is false when the
// interpreter wrote nothing.
func (o *Output) Stderr() (s string, ok bool) {
	return o.stderr, len(o.rawStderr) > 0
}

// Success reports whether the interpreter exited successfully.
func (o *Output) Success() bool {
	return o.success
}

// ExitCode returns the interpreter's exit code, or -1 if it was terminated
// by a signal.
func (o *Output) ExitCode() int {
	return o.exitCode
}

// Raw returns the captured bytes without decoding.
func (o *Output) Raw() (stdout, stderr []byte) {
	return o.rawStdout, o.rawStderr
}

// String returns stdout followed by stderr.
func (o *Output) String() string {
	var sb strings.Builder
	if s, ok := o.Stdout(); ok {
		sb.WriteString(s)
	}
	if s, ok := o.Stderr(); ok {
		sb.WriteString(s)
	}
	return sb.String()
}

// decode converts captured bytes to text, replacing invalid UTF-8 with
// U+FFFD instead of failing.
func decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(s)
}
