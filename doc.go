// Package psscript runs PowerShell scripts through a locally installed
// interpreter.
//
// A script is sent line by line on the interpreter's standard input, the
// same way a user would type it, so every line shares one session. Output
// is collected once the interpreter exits.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  pwsh/        Runner, Output, error taxonomy, batches   │
//	├─────────────────────────────────────────────────────────┤
//	│  launcher/    Child process creation (hidden window)    │
//	├─────────────────────────────────────────────────────────┤
//	│  locator/     Interpreter discovery on PATH             │
//	├─────────────────────────────────────────────────────────┤
//	│  config/      Immutable run configuration + builder     │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	out, err := pwsh.Run(ctx, `echo "hello world"`, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out)
//
// For more control, build a configuration and reuse a Runner:
//
//	cfg := config.NewBuilder().
//	    EchoCommands(true).
//	    Flags("-ExecutionPolicy", "Bypass").
//	    Build()
//	runner := pwsh.New(cfg, pwsh.WithEdition(locator.EditionCore))
//	out, err := runner.Run(ctx, script)
//
// Building with the pwshcore tag makes PowerShell Core the default edition
// on Windows.
package psscript
