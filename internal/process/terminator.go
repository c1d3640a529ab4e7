package process

import (
	"errors"
	"os"
	"os/exec"
)

// Terminator abstracts how a child is isolated at spawn time and killed at
// stop time. DefaultTerminator picks the variant for the current platform.
type Terminator interface {
	// Prepare adjusts cmd before it is started.
	Prepare(cmd *exec.Cmd)

	// ProcessGroup returns the process group led by pid, if the platform
	// supports process groups.
	ProcessGroup(pid int) (pgid int, ok bool)

	// Terminate forcefully kills the child and, when pgid is positive, every
	// process in its group. It does not wait for the child to exit.
	Terminate(p *os.Process, pgid int) error
}

// singleTerminator kills only the direct child. Descendants it forked are
// not tracked and may outlive it.
type singleTerminator struct{}

// SingleTerminator returns a terminator that only kills the direct child.
func SingleTerminator() Terminator {
	return singleTerminator{}
}

func (singleTerminator) Prepare(*exec.Cmd) {}

func (singleTerminator) ProcessGroup(int) (int, bool) {
	return 0, false
}

func (singleTerminator) Terminate(p *os.Process, _ int) error {
	return killChild(p)
}

// killChild kills p, treating an already finished process as success.
func killChild(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
