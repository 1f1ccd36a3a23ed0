// psscript-demo runs the bundled example scripts.
//
// Usage:
//
//	psscript-demo [-demo hello|shortcut] [-echo] [-core]
//
// The hello demo prints "hello world". The shortcut demo creates a notepad
// shortcut on the desktop and only works with Windows PowerShell.
package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/smnsjas/go-psscript/config"
	"github.com/smnsjas/go-psscript/locator"
	"github.com/smnsjas/go-psscript/pwsh"
)

var (
	//go:embed scripts/hello.ps1
	helloScript string

	//go:embed scripts/create_shortcut.ps1
	shortcutScript string
)

func main() {
	demo := flag.String("demo", "hello", "Demo to run: hello or shortcut")
	echo := flag.Bool("echo", false, "Echo each command before it is sent")
	core := flag.Bool("core", false, "Use PowerShell Core (pwsh) instead of the platform default")
	flag.Parse()

	var script string
	switch *demo {
	case "hello":
		script = helloScript
	case "shortcut":
		script = shortcutScript
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown demo %q (want hello or shortcut)\n", *demo)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opts []pwsh.Option
	if *core {
		opts = append(opts, pwsh.WithEdition(locator.EditionCore))
	}
	runner := pwsh.New(config.NewBuilder().EchoCommands(*echo).Build(), opts...)

	out, err := runner.Run(ctx, script)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		if pwsh.Classify(err) == pwsh.KindInterpreterNotFound {
			fmt.Println("Install PowerShell or add it to PATH.")
		}
		var scriptErr *pwsh.ScriptError
		if errors.As(err, &scriptErr) {
			stop()
			os.Exit(max(scriptErr.Output.ExitCode(), 1))
		}
		stop()
		os.Exit(1)
	}
	fmt.Print(out)

	if *demo == "shortcut" {
		fmt.Println("Press ENTER to continue...")
		_, _ = bufio.NewReader(os.Stdin).ReadByte()
	}
}
