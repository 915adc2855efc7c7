package main

import (
	"io"

	"golang.org/x/term"
)

// Mouse tracking modes:
// 1000 = button event tracking (press/release)
// 1002 = button motion tracking (drag while a button is held)
// 1006 = SGR extended encoding (ESC [ < ... M/m instead of legacy bytes)
const (
	mouseTrackingOn  = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	mouseTrackingOff = "\x1b[?1000l\x1b[?1002l\x1b[?1006l"
)

// enableRawMode puts the terminal into raw mode and returns the previous state.
func enableRawMode(fd int) (*term.State, error) {
	return term.MakeRaw(fd)
}

// restoreTerminal restores the terminal to the given state.
func restoreTerminal(fd int, state *term.State) {
	term.Restore(fd, state)
}

// enableMouseTracking arms SGR mouse reporting.
func enableMouseTracking(w io.Writer) {
	io.WriteString(w, mouseTrackingOn)
}

// disableMouseTracking disarms SGR mouse reporting.
func disableMouseTracking(w io.Writer) {
	io.WriteString(w, mouseTrackingOff)
}

// getTerminalSize returns the current terminal dimensions.
func getTerminalSize(fd int) (rows, cols int, err error) {
	cols, rows, err = term.GetSize(fd)
	return rows, cols, err
}
