//go:build unix

package launcher

import (
	"errors"
	"os"
	"syscall"
)

// sysProcAttr puts the child in its own process group so killProcess can
// take down everything it started. There is no console window to suppress
// outside Windows, so hidden is ignored.
func sysProcAttr(bool) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcess kills the child's whole process group. Commands the
// interpreter started would otherwise keep the output pipes open.
func killProcess(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGKILL); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	return nil
}
