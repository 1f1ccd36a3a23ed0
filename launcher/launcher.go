// Package launcher starts the interpreter as a child process with all three
// standard streams owned by the caller.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/smnsjas/go-psscript/config"
)

// Exit describes a finished child process.
type Exit struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Success  bool
}

// Process is a running interpreter.
type Process interface {
	// Stdin returns the write end of the child's input pipe, or nil if the
	// pipe could not be acquired.
	Stdin() io.WriteCloser

	// Wait blocks until the child exits and returns its captured output.
	// A non-zero exit is reported in Exit, not as an error.
	Wait() (*Exit, error)

	// Kill terminates the child. Killing an exited child is not an error.
	Kill() error

	// Pid returns the child's process ID.
	Pid() int
}

// WaitDelay bounds how long Wait keeps draining stdout and stderr after the
// child was killed or exited while other processes still hold the pipes.
const WaitDelay = 2 * time.Second

// Launcher starts interpreter processes.
type Launcher interface {
	Launch(ctx context.Context, executable string, cfg config.Config) (Process, error)
}

// ExecLauncher starts processes with os/exec. The platform specific part
// (console window suppression on Windows) lives in sysProcAttr.
type ExecLauncher struct{}

// Ensure ExecLauncher implements Launcher.
var _ Launcher = ExecLauncher{}

// Launch starts executable with cfg.Args(). Stdout and stderr are buffered
// in memory until the child exits. Cancelling ctx kills the child.
func (ExecLauncher) Launch(ctx context.Context, executable string, cfg config.Config) (Process, error) {
	cmd := exec.CommandContext(ctx, executable, cfg.Args()...)
	cmd.SysProcAttr = sysProcAttr(cfg.Hidden())
	cmd.Cancel = func() error { return killProcess(cmd.Process) }
	cmd.WaitDelay = WaitDelay

	p := &execProcess{cmd: cmd}
	// Non-*os.File writers make os/exec drain the pipes on its own
	// goroutines, so a chatty child cannot block while we feed stdin.
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	p.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (p *execProcess) Stdin() io.WriteCloser {
	return p.stdin
}

func (p *execProcess) Wait() (*Exit, error) {
	err := p.cmd.Wait()
	if err != nil {
		// ErrWaitDelay: the child exited cleanly but something it started
		// kept the pipes open. What was captured so far is the output.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && !errors.Is(err, exec.ErrWaitDelay) {
			return nil, err
		}
	}

	state := p.cmd.ProcessState
	return &Exit{
		Stdout:   p.stdout.Bytes(),
		Stderr:   p.stderr.Bytes(),
		ExitCode: state.ExitCode(),
		Success:  state.Success(),
	}, nil
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil || p.cmd.ProcessState != nil {
		return nil
	}
	if err := killProcess(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *execProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}
