package pwsh

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/smnsjas/go-psscript/config"
	"github.com/smnsjas/go-psscript/launcher"
)

// staticResolver always resolves to the same executable.
type staticResolver string

func (s staticResolver) Resolve() (string, error) {
	return string(s), nil
}

// errResolver always fails.
type errResolver struct{ err error }

func (e errResolver) Resolve() (string, error) {
	return "", e.err
}

// mockLauncher implements launcher.Launcher for testing.
type mockLauncher struct {
	mu       sync.Mutex
	calls    int
	launchFn func(ctx context.Context, executable string, cfg config.Config) (launcher.Process, error)
}

func (m *mockLauncher) Launch(ctx context.Context, executable string, cfg config.Config) (launcher.Process, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.launchFn != nil {
		return m.launchFn(ctx, executable, cfg)
	}
	return nil, errors.New("mockLauncher: no launchFn")
}

func (m *mockLauncher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockProcess implements launcher.Process for testing.
type mockProcess struct {
	stdin  io.WriteCloser
	exit   *launcher.Exit
	waitFn func() (*launcher.Exit, error)

	killed bool
	waited bool
}

func (p *mockProcess) Stdin() io.WriteCloser {
	return p.stdin
}

func (p *mockProcess) Wait() (*launcher.Exit, error) {
	p.waited = true
	if p.waitFn != nil {
		return p.waitFn()
	}
	if p.exit != nil {
		return p.exit, nil
	}
	return &launcher.Exit{ExitCode: 0, Success: true}, nil
}

func (p *mockProcess) Kill() error {
	p.killed = true
	return nil
}

func (p *mockProcess) Pid() int {
	return 4242
}

// recordingStdin captures writes and can fail after a number of them.
type recordingStdin struct {
	writes    []string
	failAfter int // fail once len(writes) reaches this; 0 means never
	failErr   error
	closed    bool
}

func (w *recordingStdin) Write(p []byte) (int, error) {
	if w.failAfter > 0 && len(w.writes) >= w.failAfter {
		return 0, w.failErr
	}
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func (w *recordingStdin) Close() error {
	w.closed = true
	return nil
}

// failingWriter rejects every write.
type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}
