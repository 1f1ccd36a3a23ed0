// Package fakepwsh is a stand-in interpreter for tests.
//
// A test binary calls Main from TestMain when EnvVar is set, which turns the
// re-executed binary into a tiny line interpreter reading stdin:
//
//	echo <text>   write text and a newline to stdout
//	err <text>    write text and a newline to stderr
//	raw <hex>     write the decoded bytes to stdout verbatim
//	args          write the process arguments, space separated, to stdout
//	sleep <dur>   sleep for a time.ParseDuration value
//	spawn <dur>   start a background copy that sleeps for dur while holding
//	              this process's stdout and stderr
//	exit <code>   exit immediately with code
//
// Blank lines are ignored. Unknown commands are reported on stderr and make
// the process exit with status 1 once stdin is exhausted.
package fakepwsh

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"
)

// EnvVar switches a test binary into interpreter mode.
const EnvVar = "PSSCRIPT_FAKE_INTERPRETER"

// Enabled reports whether the current process should act as the interpreter.
func Enabled() bool {
	return os.Getenv(EnvVar) == "1"
}

// Enable marks child processes of the running test as fake interpreters and
// returns the executable to launch.
func Enable(t *testing.T) string {
	t.Helper()
	t.Setenv(EnvVar, "1")
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	return exe
}

// Main runs the interpreter and returns the exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	status := 0
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		verb, rest, _ := strings.Cut(scanner.Text(), " ")
		switch verb {
		case "":
		case "echo":
			fmt.Fprintln(stdout, rest)
		case "err":
			fmt.Fprintln(stderr, rest)
		case "raw":
			b, err := hex.DecodeString(rest)
			if err != nil {
				fmt.Fprintf(stderr, "raw: %v\n", err)
				status = 1
				continue
			}
			_, _ = stdout.Write(b)
		case "args":
			fmt.Fprintln(stdout, strings.Join(args, " "))
		case "sleep":
			d, err := time.ParseDuration(rest)
			if err != nil {
				fmt.Fprintf(stderr, "sleep: %v\n", err)
				status = 1
				continue
			}
			time.Sleep(d)
		case "spawn":
			if err := spawn(rest, stdout, stderr); err != nil {
				fmt.Fprintf(stderr, "spawn: %v\n", err)
				status = 1
			}
		case "exit":
			code, err := strconv.Atoi(rest)
			if err != nil {
				fmt.Fprintf(stderr, "exit: %v\n", err)
				return 1
			}
			return code
		default:
			fmt.Fprintf(stderr, "The term '%s' is not recognized\n", verb)
			status = 1
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "read stdin: %v\n", err)
		return 1
	}
	return status
}

// spawn starts another interpreter that sleeps for d. It is not waited for.
func spawn(d string, stdout, stderr io.Writer) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), EnvVar+"=1")
	cmd.Stdin = strings.NewReader("sleep " + d + "\n")
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Start()
}
