package ptyhost

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawnRunsShellUnderPTY(t *testing.T) {
	if os.Getenv("CI_NO_PTY") != "" {
		t.Skip("no PTY available in this environment")
	}
	h, err := Spawn("sh", nil, "", []string{"PATH=" + os.Getenv("PATH")})
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer h.Close()

	_, err = h.Write([]byte("echo hi\nexit\n"))
	assert.NoError(t, err)

	buf := make([]byte, 4096)
	n, _ := h.Read(buf)
	assert.Contains(t, string(buf[:n]), "hi")
}

func TestExitCodeReportsZeroForNilError(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}

func TestExitCodeReportsChildExitStatus(t *testing.T) {
	err := exec.Command("sh", "-c", "exit 3").Run()
	assert.Equal(t, 3, ExitCode(err))
}

func TestExitCodeReports128PlusSignalForSignaledChild(t *testing.T) {
	err := exec.Command("sh", "-c", "kill -TERM $$").Run()
	assert.Equal(t, 128+15, ExitCode(err))
}
