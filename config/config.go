// Package config describes how the PowerShell interpreter is invoked.
//
// A Config is immutable once built. Use Default for the common case or a
// Builder to change individual options:
//
//	cfg := config.NewBuilder().
//	    Hidden(false).
//	    EchoCommands(true).
//	    Build()
package config

// Interpreter flags understood by both Windows PowerShell and PowerShell Core.
const (
	FlagNoProfile      = "-NoProfile"
	FlagNonInteractive = "-NonInteractive"
	FlagCommand        = "-Command"

	// StdinMarker tells -Command to read commands from standard input.
	StdinMarker = "-"
)

// Config holds the invocation options for a script run.
type Config struct {
	flags          []string
	noProfile      bool
	nonInteractive bool
	hidden         bool
	echoCommands   bool
}

// Default returns a Config with NoProfile, NonInteractive and Hidden set
// and EchoCommands unset.
func Default() Config {
	return NewBuilder().Build()
}

// NoProfile reports whether the interpreter skips loading profile scripts.
func (c Config) NoProfile() bool { return c.noProfile }

// NonInteractive reports whether the interpreter runs without prompts.
func (c Config) NonInteractive() bool { return c.nonInteractive }

// Hidden reports whether the child should be created without a console
// window. Only Windows honours this; elsewhere it has no effect.
func (c Config) Hidden() bool { return c.hidden }

// EchoCommands reports whether each script line is also written to the
// host's standard output as it is sent.
func (c Config) EchoCommands() bool { return c.echoCommands }

// Flags returns the extra interpreter flags added through Builder.Flags.
func (c Config) Flags() []string {
	return append([]string(nil), c.flags...)
}

// Args returns the full argument list passed to the interpreter.
//
// Switches always precede the "-Command -" pair: the interpreter treats
// everything after -Command as script text.
func (c Config) Args() []string {
	args := make([]string, 0, len(c.flags)+4)
	if c.noProfile {
		args = append(args, FlagNoProfile)
	}
	if c.nonInteractive {
		args = append(args, FlagNonInteractive)
	}
	args = append(args, c.flags...)
	return append(args, FlagCommand, StdinMarker)
}

// Builder assembles a Config. Builder is a value type: every setter returns
// an updated copy, so a partially configured Builder can be shared safely.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder preloaded with the default options.
func NewBuilder() Builder {
	return Builder{cfg: Config{
		noProfile:      true,
		nonInteractive: true,
		hidden:         true,
	}}
}

// NoProfile prevents environment specific profile scripts from being loaded.
func (b Builder) NoProfile(flag bool) Builder {
	b.cfg.noProfile = flag
	return b
}

// NonInteractive runs the script without presenting an interactive prompt.
func (b Builder) NonInteractive(flag bool) Builder {
	b.cfg.nonInteractive = flag
	return b
}

// Hidden creates the child with the CREATE_NO_WINDOW flag on Windows.
// It is a no-op on every other platform.
func (b Builder) Hidden(flag bool) Builder {
	b.cfg.hidden = flag
	return b
}

// EchoCommands prints each command to the host's stdout as it is sent.
// Useful when debugging scripts or showing progress.
func (b Builder) EchoCommands(flag bool) Builder {
	b.cfg.echoCommands = flag
	return b
}

// Flags appends extra interpreter flags, e.g. "-ExecutionPolicy", "Bypass".
// They are placed after the profile/interactive switches.
func (b Builder) Flags(tokens ...string) Builder {
	flags := make([]string, 0, len(b.cfg.flags)+len(tokens))
	flags = append(flags, b.cfg.flags...)
	b.cfg.flags = append(flags, tokens...)
	return b
}

// Build returns the finished Config.
func (b Builder) Build() Config {
	cfg := b.cfg
	cfg.flags = append([]string(nil), b.cfg.flags...)
	return cfg
}
