//go:build !windows

package ptyhost

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// CreackHost runs a shell under a real PTY via github.com/creack/pty,
// the same library and wiring the teacher's term_unix.go uses.
type CreackHost struct {
	cmd *exec.Cmd
	f   *os.File
}

// Spawn starts command with args attached to a new PTY, dir as its
// working directory (spec.md §6 CLI: "prog [command [args…]]"). An empty
// command falls back to $SHELL, then "bash", the default-interactive-
// shell behavior the contract requires when no command is given.
func Spawn(command string, args []string, dir string, env []string) (*CreackHost, error) {
	if command == "" {
		command = os.Getenv("SHELL")
	}
	if command == "" {
		command = "bash"
	}

	c := exec.Command(command, args...)
	c.Dir = dir
	c.Env = env

	f, err := pty.Start(c)
	if err != nil {
		return nil, err
	}
	return &CreackHost{cmd: c, f: f}, nil
}

// ExitCode reports the exit status Wait returned, the way spec.md §6/§7
// define it: the child's exit status, or 128+signal when it died from a
// signal. A nil error (clean exit) reports 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}

func (h *CreackHost) Read(p []byte) (int, error)  { return h.f.Read(p) }
func (h *CreackHost) Write(p []byte) (int, error) { return h.f.Write(p) }

// Resize matches the teacher's updatePTYSize: rows/cols in characters,
// plus the pixel extent of the drawable grid.
func (h *CreackHost) Resize(rows, cols, pixelWidth, pixelHeight int) error {
	return pty.Setsize(h.f, &pty.Winsize{
		Rows: uint16(rows), Cols: uint16(cols),
		X: uint16(pixelWidth), Y: uint16(pixelHeight),
	})
}

func (h *CreackHost) Wait() error  { return h.cmd.Wait() }
func (h *CreackHost) Close() error { return h.f.Close() }
