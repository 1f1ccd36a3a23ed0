package pwsh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/smnsjas/go-psscript/config"
	"github.com/smnsjas/go-psscript/launcher"
	"github.com/smnsjas/go-psscript/locator"
)

// Resolver finds the interpreter executable. *locator.Locator implements it.
type Resolver interface {
	Resolve() (string, error)
}

// Ensure *locator.Locator implements Resolver.
var _ Resolver = (*locator.Locator)(nil)

// Option configures a Runner.
type Option func(*Runner)

// WithEdition resolves the interpreter for edition instead of
// locator.DefaultEdition.
func WithEdition(edition locator.Edition) Option {
	return func(r *Runner) { r.resolver = locator.New(edition) }
}

// WithResolver replaces interpreter discovery.
func WithResolver(resolver Resolver) Option {
	return func(r *Runner) { r.resolver = resolver }
}

// WithExecutable skips discovery and always starts path.
func WithExecutable(path string) Option {
	return WithResolver(executable(path))
}

type executable string

func (e executable) Resolve() (string, error) {
	if e == "" {
		return "", ErrInterpreterNotFound
	}
	return string(e), nil
}

// WithLauncher replaces process creation.
func WithLauncher(l launcher.Launcher) Option {
	return func(r *Runner) { r.launcher = l }
}

// WithEchoWriter sets where echoed commands go. Defaults to os.Stdout.
func WithEchoWriter(w io.Writer) Option {
	return func(r *Runner) { r.echo = w }
}

// WithLogger sets the structured logger. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner executes scripts with a fixed configuration. It holds no per-run
// state, so one Runner may be used from many goroutines at once; every run
// starts its own interpreter process.
type Runner struct {
	cfg      config.Config
	resolver Resolver
	launcher launcher.Launcher
	echo     io.Writer
	logger   *slog.Logger
}

// New creates a Runner for cfg.
func New(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		resolver: locator.New(locator.DefaultEdition),
		launcher: launcher.ExecLauncher{},
		echo:     os.Stdout,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the configuration the Runner was created with.
func (r *Runner) Config() config.Config {
	return r.cfg
}

// Run executes script and returns its Output. If the interpreter exits
// unsuccessfully the error is a *ScriptError carrying the Output.
//
// Other failures are ErrInterpreterNotFound, ErrStdinUnavailable or an
// *IOError. Nothing is retried.
func (r *Runner) Run(ctx context.Context, script string) (*Output, error) {
	out, err := r.RunRaw(ctx, script)
	if err != nil {
		return nil, err
	}
	if !out.Success() {
		return nil, &ScriptError{Output: out}
	}
	return out, nil
}

// RunRaw is like Run but returns the Output of an unsuccessful script
// instead of a *ScriptError.
func (r *Runner) RunRaw(ctx context.Context, script string) (*Output, error) {
	logger := r.logger.With("run_id", uuid.NewString())

	exe, err := r.resolve()
	if err != nil {
		logger.Debug("interpreter not found", "error", err)
		return nil, err
	}

	proc, err := r.launcher.Launch(ctx, exe, r.cfg)
	if err != nil {
		logger.Debug("spawn failed", "executable", exe, "error", err)
		return nil, &IOError{Op: "spawn", Err: err}
	}
	logger.Debug("interpreter started", "executable", exe, "args", r.cfg.Args(), "pid", proc.Pid())

	stdin := proc.Stdin()
	if stdin == nil {
		release(proc)
		return nil, ErrStdinUnavailable
	}

	var echo io.Writer
	if r.cfg.EchoCommands() {
		echo = r.echo
	}
	sent, err := feed(stdin, script, echo, logger)
	if err != nil {
		release(proc)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = &IOError{Op: "write stdin", Err: ctxErr}
		}
		logger.Debug("streaming script failed", "lines", sent, "error", err)
		return nil, err
	}
	logger.Debug("script sent", "lines", sent)

	out, err := collect(ctx, proc)
	if err != nil {
		logger.Debug("wait failed", "error", err)
		return nil, err
	}
	logger.Debug("interpreter exited", "exit_code", out.ExitCode(), "success", out.Success())
	return out, nil
}

// resolve maps any resolver failure onto ErrInterpreterNotFound.
func (r *Runner) resolve() (string, error) {
	exe, err := r.resolver.Resolve()
	if err == nil {
		return exe, nil
	}
	if errors.Is(err, ErrInterpreterNotFound) {
		return "", err
	}
	if errors.Is(err, locator.ErrNotFound) {
		return "", ErrInterpreterNotFound
	}
	return "", fmt.Errorf("%w: %v", ErrInterpreterNotFound, err)
}

// Run executes script with the default configuration, optionally echoing
// each command to os.Stdout.
func Run(ctx context.Context, script string, echo bool) (*Output, error) {
	cfg := config.NewBuilder().EchoCommands(echo).Build()
	return New(cfg).Run(ctx, script)
}
