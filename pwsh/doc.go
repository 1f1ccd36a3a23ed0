// Package pwsh runs PowerShell scripts in a local child process.
//
// The interpreter is started with "-Command -" so it reads commands from
// standard input. The script is written to the child one line at a time,
// stdin is closed, and stdout/stderr are collected once the child exits.
//
// Basic usage:
//
//	runner := pwsh.New(config.Default())
//	out, err := runner.Run(ctx, `echo "hello world"`)
//	if err != nil {
//	    var scriptErr *pwsh.ScriptError
//	    if errors.As(err, &scriptErr) {
//	        fmt.Print(scriptErr.Output)
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Print(out)
//
// Every line is sent as a separate command, so multi-line constructs must
// be valid when fed to an interactive prompt line by line.
//
// Output is only available after the interpreter exits; nothing is streamed
// while it runs. Scripts cannot read from standard input themselves because
// the pipe carries the script.
//
// Runs have no built-in timeout. A child that stops reading its input
// blocks Run until ctx is cancelled, which kills the child.
package pwsh
