package process

// Notes:
// - KillProcessGroup is only exercised with PIDs that cannot name a real
//   group: 0 would target the current group.

import (
	"os/exec"
	"runtime"
	"testing"
)

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(0)
	KillProcessGroup(-1)
	KillProcessGroup(999999999)
}

func TestDetach_StartsProcess(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX true binary")
	}
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}

	cmd := exec.Command(bin)
	Detach(cmd)
	if cmd.SysProcAttr == nil {
		t.Fatal("Detach() left SysProcAttr nil")
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
