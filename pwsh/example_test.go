package pwsh_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/smnsjas/go-psscript/config"
	"github.com/smnsjas/go-psscript/locator"
	"github.com/smnsjas/go-psscript/pwsh"
)

func ExampleRunner_Run() {
	cfg := config.NewBuilder().
		Flags("-ExecutionPolicy", "Bypass").
		EchoCommands(true).
		Build()
	runner := pwsh.New(cfg, pwsh.WithEdition(locator.EditionCore))

	out, err := runner.Run(context.Background(), `Write-Output "hello world"`)
	if err != nil {
		var scriptErr *pwsh.ScriptError
		if errors.As(err, &scriptErr) {
			// The script ran; print what it produced.
			fmt.Print(scriptErr.Output)
			return
		}
		log.Fatal(err)
	}
	fmt.Print(out)
}

func ExampleClassify() {
	_, err := pwsh.Run(context.Background(), "Get-Date", false)

	switch pwsh.Classify(err) {
	case pwsh.KindSuccess:
		fmt.Println("ok")
	case pwsh.KindInterpreterNotFound:
		fmt.Println("install PowerShell first")
	default:
		fmt.Println("failed:", err)
	}
}
