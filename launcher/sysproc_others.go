//go:build !windows && !unix

package launcher

import (
	"os"
	"syscall"
)

// sysProcAttr is a no-op: there is no console window to suppress here.
func sysProcAttr(bool) *syscall.SysProcAttr {
	return nil
}

func killProcess(p *os.Process) error {
	return p.Kill()
}
