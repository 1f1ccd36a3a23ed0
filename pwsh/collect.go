package pwsh

import (
	"context"

	"github.com/smnsjas/go-psscript/launcher"
)

// collect waits for proc to exit and converts the captures into an Output.
// A context that ended while waiting wins over whatever the child reported,
// since the child was killed on its behalf.
func collect(ctx context.Context, proc launcher.Process) (*Output, error) {
	exit, err := proc.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &IOError{Op: "wait", Err: ctxErr}
	}
	if err != nil {
		return nil, &IOError{Op: "wait", Err: err}
	}
	return newOutput(exit), nil
}

// release kills and reaps a child abandoned on an early failure path.
func release(proc launcher.Process) {
	_ = proc.Kill()    // Best-effort cleanup
	_, _ = proc.Wait() // Reap the child
}
