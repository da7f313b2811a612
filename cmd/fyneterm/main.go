package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"sync/atomic"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	apphost "github.com/minitermproject/fyneterm/internal/app"
	"github.com/minitermproject/fyneterm/internal/displayfyne"
	"github.com/minitermproject/fyneterm/internal/engine"
	"github.com/minitermproject/fyneterm/internal/ptyhost"
)

const (
	defaultRows = 24
	defaultCols = 80
)

// openSessions tracks live terminal windows (Ctrl+Shift+N opens more than
// one) so the process only exits, mirroring the child's status code, once
// every session has ended rather than on the first window to close.
var openSessions int32

func termTitle() string {
	return "Fyne Terminal"
}

func main() {
	var debug bool
	var shell string
	var scrollback int
	var scrollLines int
	flag.BoolVar(&debug, "debug", false, "Show terminal debug messages")
	flag.StringVar(&shell, "shell", "", "Shell to run when no command is given (defaults to $SHELL)")
	flag.IntVar(&scrollback, "scrollback", engine.ScrollbackSize, "Scrollback lines retained per window")
	flag.IntVar(&scrollLines, "scroll-lines", 3, "Lines scrolled per mouse wheel tick")
	flag.Parse()

	// spec.md §6 CLI contract: "prog [command [args…]]". With positional
	// args, execvp them; otherwise fall back to -shell/$SHELL.
	command, args := shell, []string(nil)
	if cmdArgs := flag.Args(); len(cmdArgs) > 0 {
		command, args = cmdArgs[0], cmdArgs[1:]
	}

	opts := engine.DefaultEngineOptions()
	opts.ScrollbackCapacity = scrollback
	opts.MouseScrollLines = scrollLines

	a := fyneapp.New()
	w := newTerminalWindow(a, command, args, debug, opts)
	w.ShowAndRun()
}

func newTerminalWindow(a fyne.App, command string, args []string, debug bool, opts engine.EngineOptions) fyne.Window {
	w := a.NewWindow(termTitle())
	w.SetPadded(false)

	th := newTermTheme()
	a.Settings().SetTheme(th)

	opts.Palette = engine.FromTheme(ansiColorLookup(th))
	eng := engine.NewWithOptions(defaultRows, defaultCols, opts)
	eng.Debug = debug

	backend := displayfyne.New(w, defaultRows, defaultCols)
	backend.SetPalette(eng.Palette)

	pty, err := ptyhost.Spawn(command, args, "", nil)
	if err != nil {
		log.Fatalf("failed to start %s: %v", command, err)
	}

	host := apphost.New(pty, eng, backend)
	host.Debug = debug

	// apphost.New wires eng.OnTitle straight to backend.SetTitle; override
	// it here so the window title keeps the "Fyne Terminal: " prefix.
	eng.OnTitle = func(title string) {
		if title == "" {
			w.SetTitle(termTitle())
		} else {
			w.SetTitle(termTitle() + ": " + title)
		}
	}

	w.Resize(fyne.NewSize(float32(defaultCols)*8, float32(defaultRows)*16))

	newTerm := func(_ fyne.Shortcut) {
		w := newTerminalWindow(a, command, args, debug, opts)
		w.Show()
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, newTerm)
	if runtime.GOOS == "darwin" {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierSuper}, newTerm)
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(_ fyne.Shortcut) {
			th.fontSize++
			a.Settings().SetTheme(th)
		})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: fyne.KeyModifierShortcutDefault},
		func(_ fyne.Shortcut) {
			th.fontSize--
			a.Settings().SetTheme(th)
		})

	atomic.AddInt32(&openSessions, 1)
	go func() {
		err := host.Run()
		if err != nil {
			fyne.LogError("terminal session ended", err)
		}
		fyne.Do(w.Close)
		if atomic.AddInt32(&openSessions, -1) == 0 {
			os.Exit(host.ExitCode)
		}
	}()

	return w
}
