//go:build unix

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// groupTerminator places each child in a new process group it leads and
// kills the whole group on stop.
type groupTerminator struct{}

// GroupTerminator returns a terminator that kills the child's process group.
func GroupTerminator() Terminator {
	return groupTerminator{}
}

// DefaultTerminator returns the process-group aware terminator.
func DefaultTerminator() Terminator {
	return GroupTerminator()
}

func (groupTerminator) Prepare(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
	cmd.SysProcAttr.Pgid = 0
}

func (groupTerminator) ProcessGroup(pid int) (int, bool) {
	if pid <= 0 {
		return 0, false
	}
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		// Setpgid with Pgid 0 makes the child its own group leader.
		return pid, true
	}
	return pgid, true
}

func (groupTerminator) Terminate(p *os.Process, pgid int) error {
	var groupErr error
	if pgid > 0 {
		if err := unix.Kill(-pgid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
			groupErr = fmt.Errorf("kill process group %d: %w", pgid, err)
		}
	}
	return errors.Join(groupErr, killChild(p))
}
