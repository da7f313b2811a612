// Command fynetermcli is a headless terminal session: the same engine
// and PTY host as cmd/fyneterm, driven by a tcell screen instead of a
// Fyne window (§6). It exists so the display.Backend contract is
// exercised by a second, GUI-free implementation.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/minitermproject/fyneterm/internal/app"
	"github.com/minitermproject/fyneterm/internal/displaytcell"
	"github.com/minitermproject/fyneterm/internal/engine"
	"github.com/minitermproject/fyneterm/internal/ptyhost"
)

func main() {
	var debug bool
	var shell string
	var scrollback int
	var scrollLines int
	flag.BoolVar(&debug, "debug", false, "Show terminal debug messages")
	flag.StringVar(&shell, "shell", "", "Shell to run when no command is given (defaults to $SHELL)")
	flag.IntVar(&scrollback, "scrollback", engine.ScrollbackSize, "Scrollback lines retained")
	flag.IntVar(&scrollLines, "scroll-lines", 3, "Lines scrolled per mouse wheel tick")
	flag.Parse()

	// spec.md §6 CLI contract: "prog [command [args…]]". With positional
	// args, execvp them; otherwise fall back to -shell/$SHELL.
	command, args := shell, []string(nil)
	if cmdArgs := flag.Args(); len(cmdArgs) > 0 {
		command, args = cmdArgs[0], cmdArgs[1:]
	}

	screen, err := displaytcell.NewScreen()
	if err != nil {
		log.Fatalf("failed to start screen: %v", err)
	}

	backend := displaytcell.New(screen)
	rows, cols := backend.Size()

	opts := engine.DefaultEngineOptions()
	opts.ScrollbackCapacity = scrollback
	opts.MouseScrollLines = scrollLines

	eng := engine.NewWithOptions(rows, cols, opts)
	eng.Debug = debug
	backend.SetPalette(eng.Palette)

	pty, err := ptyhost.Spawn(command, args, "", nil)
	if err != nil {
		backend.Close()
		log.Fatalf("failed to start %s: %v", command, err)
	}

	host := app.New(pty, eng, backend)
	host.Debug = debug

	go backend.Pump()

	if err := host.Run(); err != nil {
		backend.Close()
		log.Fatalf("terminal session ended: %v", err)
	}
	backend.Close()
	os.Exit(host.ExitCode)
}
