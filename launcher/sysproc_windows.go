//go:build windows

package launcher

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// sysProcAttr asks CreateProcess not to allocate a console window for the
// child when hidden is set.
func sysProcAttr(hidden bool) *syscall.SysProcAttr {
	if !hidden {
		return nil
	}
	return &syscall.SysProcAttr{CreationFlags: windows.CREATE_NO_WINDOW}
}

// killProcess kills the interpreter only. Commands it started are left to
// WaitDelay, which stops Wait from blocking on their copies of the pipes.
func killProcess(p *os.Process) error {
	return p.Kill()
}
