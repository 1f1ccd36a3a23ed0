// Command psscript runs PowerShell scripts through a local interpreter.
//
// Usage:
//
//	psscript [flags] [script-file...]
//
// The script comes from, in order of preference: -c/--command, the given
// files, or standard input when it is not a terminal.
//
// Examples:
//
//	psscript -c 'Get-Date'
//	psscript --echo deploy.ps1
//	Get-Content setup.ps1 | psscript --edition core
//	psscript --parallel 4 a.ps1 b.ps1 c.ps1
//
// Environment:
//
//	PSSCRIPT_EDITION     default for --edition (desktop or core)
//	PSSCRIPT_LOG_LEVEL   default for --log-level
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smnsjas/go-psscript/config"
	pslog "github.com/smnsjas/go-psscript/internal/log"
	"github.com/smnsjas/go-psscript/locator"
	"github.com/smnsjas/go-psscript/pwsh"
)

const (
	envEdition  = "PSSCRIPT_EDITION"
	envLogLevel = "PSSCRIPT_LOG_LEVEL"
)

// exitCodeError carries a process exit code out of cobra's RunE.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type options struct {
	command        string
	edition        string
	interpreter    string
	noProfile      bool
	nonInteractive bool
	hidden         bool
	echo           bool
	flags          []string
	parallel       int
	timeout        time.Duration
	logLevel       string
	logFile        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "psscript [flags] [script-file...]",
		Short:         "Run PowerShell scripts through a local interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.command, "command", "c", "", "Inline script to run")
	f.StringVar(&opts.edition, "edition", envOr(envEdition, locator.DefaultEdition.String()), "Interpreter edition: desktop or core")
	f.StringVar(&opts.interpreter, "interpreter", "", "Path to the interpreter (skips discovery)")
	f.BoolVar(&opts.noProfile, "no-profile", true, "Do not load PowerShell profiles")
	f.BoolVar(&opts.nonInteractive, "non-interactive", true, "Run without interactive prompts")
	f.BoolVar(&opts.hidden, "hidden", true, "Do not create a console window (Windows only)")
	f.BoolVar(&opts.echo, "echo", false, "Print each command to stdout as it is sent")
	f.StringArrayVar(&opts.flags, "flag", nil, "Extra interpreter flag, repeatable (e.g. --flag=-ExecutionPolicy --flag=Bypass)")
	f.IntVar(&opts.parallel, "parallel", 1, "Maximum scripts running at once when several files are given")
	f.DurationVar(&opts.timeout, "timeout", 0, "Kill the interpreter after this long (0 = no limit)")
	f.StringVar(&opts.logLevel, "log-level", envOr(envLogLevel, ""), "Log level: debug, info, warn, error (empty = no logging)")
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr (rotated at 10MB)")

	return cmd
}

func run(ctx context.Context, opts *options, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.command != "" && len(args) > 0 {
		return errors.New("--command cannot be combined with script files")
	}

	logger, closeLog, err := newLogger(opts.logLevel, opts.logFile, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	runner, err := newRunner(opts, logger, stdout)
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if len(args) > 1 {
		return runFiles(ctx, runner, args, opts.parallel, stdout, stderr)
	}

	script, err := loadScript(opts.command, args, stdin)
	if err != nil {
		return err
	}

	out, err := runner.Run(ctx, script)
	return report(out, err, stdout, stderr)
}

func newRunner(opts *options, logger *slog.Logger, echo io.Writer) (*pwsh.Runner, error) {
	cfg := config.NewBuilder().
		NoProfile(opts.noProfile).
		NonInteractive(opts.nonInteractive).
		Hidden(opts.hidden).
		EchoCommands(opts.echo).
		Flags(opts.flags...).
		Build()

	runnerOpts := []pwsh.Option{pwsh.WithLogger(logger), pwsh.WithEchoWriter(echo)}
	if opts.interpreter != "" {
		runnerOpts = append(runnerOpts, pwsh.WithExecutable(opts.interpreter))
	} else {
		edition, err := locator.ParseEdition(opts.edition)
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, pwsh.WithEdition(edition))
	}
	return pwsh.New(cfg, runnerOpts...), nil
}

// loadScript picks the inline command, the single script file, or piped stdin.
func loadScript(command string, files []string, stdin io.Reader) (string, error) {
	if command != "" {
		return command, nil
	}
	if len(files) == 1 {
		b, err := os.ReadFile(files[0])
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(b), nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no script given: use --command, a script file, or pipe a script to stdin")
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func runFiles(ctx context.Context, runner *pwsh.Runner, files []string, parallel int, stdout, stderr io.Writer) error {
	scripts := make([]string, len(files))
	for i, name := range files {
		b, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		scripts[i] = string(b)
	}

	code := 0
	for _, res := range runner.RunBatch(ctx, scripts, parallel) {
		fmt.Fprintf(stdout, "==> %s <==\n", files[res.Index])
		var exitErr *exitCodeError
		if err := report(res.Output, res.Err, stdout, stderr); errors.As(err, &exitErr) {
			code = max(code, exitErr.code)
		} else if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code = max(code, 1)
		}
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// report prints the captures of an outcome to the matching host streams.
// Script failures turn into the interpreter's exit code; other errors are
// returned as is.
func report(out *pwsh.Output, err error, stdout, stderr io.Writer) error {
	if err == nil {
		printOutput(out, stdout, stderr)
		return nil
	}

	var scriptErr *pwsh.ScriptError
	if !errors.As(err, &scriptErr) {
		return err
	}
	printOutput(scriptErr.Output, stdout, stderr)
	code := scriptErr.Output.ExitCode()
	if code <= 0 {
		code = 1
	}
	return &exitCodeError{code: code}
}

// printOutput copies each captured stream to the matching host stream.
func printOutput(out *pwsh.Output, stdout, stderr io.Writer) {
	if s, ok := out.Stdout(); ok {
		fmt.Fprint(stdout, s)
	}
	if s, ok := out.Stderr(); ok {
		fmt.Fprint(stderr, s)
	}
}

// newLogger builds the redacting slog logger. An empty level disables logging.
func newLogger(level, file string, stderr io.Writer) (*slog.Logger, func(), error) {
	noop := func() {}
	if level == "" {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, noop, fmt.Errorf("invalid log level %q: valid values are debug, info, warn, error", level)
	}

	dest := stderr
	closeFn := noop
	if file != "" {
		rf, err := pslog.OpenRotatingFile(file, pslog.DefaultMaxBytes, pslog.DefaultMaxBackups)
		if err != nil {
			return nil, noop, err
		}
		dest = rf
		closeFn = func() { _ = rf.Close() }
	}

	handler := slog.NewTextHandler(dest, &slog.HandlerOptions{Level: lvl})
	return slog.New(pslog.NewRedactingHandler(handler)), closeFn, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
