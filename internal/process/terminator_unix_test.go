//go:build unix

package process

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// gone reports whether pid no longer runs. Zombies count as gone since a
// reparented grandchild may wait for init to reap it.
func gone(pid int) bool {
	if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
		return true
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	if i := bytes.LastIndexByte(stat, ')'); i >= 0 && i+2 < len(stat) {
		return stat[i+2] == 'Z'
	}
	return false
}

func TestStop_KillsProcessGroup(t *testing.T) {
	sup := newTestSupervisor(t, shell("tree", `echo $$; sleep 30 & echo $!; wait`))
	h := sup.Handles()[0]
	h.Send(CommandStart)

	parent, err := strconv.Atoi(nextLine(t, h, 5*time.Second))
	require.NoError(t, err)
	child, err := strconv.Atoi(nextLine(t, h, 5*time.Second))
	require.NoError(t, err)

	pgid, err := unix.Getpgid(child)
	require.NoError(t, err)
	assert.Equal(t, parent, pgid, "grandchild should share the session's process group")

	h.Send(CommandStop)

	require.Eventually(t, func() bool { return gone(parent) && gone(child) },
		2*time.Second, 10*time.Millisecond, "process group survived stop")
	assert.Equal(t, StateIdle, h.State())
}

func TestTeardown_KillsProcessGroup(t *testing.T) {
	sup := newTestSupervisor(t, shell("tree", `sleep 30 & echo $!; wait`))
	h := sup.Handles()[0]
	h.Send(CommandStart)

	child, err := strconv.Atoi(nextLine(t, h, 5*time.Second))
	require.NoError(t, err)

	sup.Teardown()

	require.Eventually(t, func() bool { return gone(child) }, 2*time.Second, 10*time.Millisecond)
}

func TestGroupTerminator_Prepare(t *testing.T) {
	cmd := exec.Command("true")
	GroupTerminator().Prepare(cmd)
	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
}

func TestGroupTerminator_FinishedProcess(t *testing.T) {
	cmd := exec.Command("true")
	term := GroupTerminator()
	term.Prepare(cmd)
	require.NoError(t, cmd.Start())
	pgid, ok := term.ProcessGroup(cmd.Process.Pid)
	require.True(t, ok)
	require.NoError(t, cmd.Wait())

	assert.NoError(t, term.Terminate(cmd.Process, pgid))
}

func TestSingleTerminator(t *testing.T) {
	term := SingleTerminator()
	_, ok := term.ProcessGroup(42)
	assert.False(t, ok)

	cmd := exec.Command("sleep", "30")
	term.Prepare(cmd)
	assert.Nil(t, cmd.SysProcAttr)
	require.NoError(t, cmd.Start())

	require.NoError(t, term.Terminate(cmd.Process, 0))
	err := cmd.Wait()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, -1, exitErr.ExitCode())
}
