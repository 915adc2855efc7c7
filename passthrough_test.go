package main

import (
	"testing"

	"github.com/creack/pty"
	"golang.org/x/term"
)

func TestFinishRelayRestoresBeforeClose(t *testing.T) {
	var order []string
	finishRelay(
		func() { order = append(order, "restore") },
		func() { order = append(order, "close-pty") },
		func() { order = append(order, "close-input") },
	)
	if len(order) != 3 {
		t.Fatalf("expected 3 teardown steps, got %d", len(order))
	}
	if order[0] != "restore" {
		t.Errorf("expected terminal restore first, got %q", order[0])
	}
	if order[1] != "close-pty" || order[2] != "close-input" {
		t.Errorf("expected closes after restore, got %v", order)
	}
}

func TestRestoreFailsOnClosedFd(t *testing.T) {
	// Restoring after the fd is closed fails and would leave the
	// terminal in raw mode; this is why finishRelay restores first.
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()

	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		tty.Close()
		t.Skipf("raw mode unavailable: %v", err)
	}
	if err := term.Restore(fd, state); err != nil {
		t.Errorf("restore with open fd: %v", err)
	}

	tty.Close()
	if err := term.Restore(fd, state); err == nil {
		t.Error("expected restore to fail on a closed fd")
	}
}

func TestPassthroughRejectsEmptyCommand(t *testing.T) {
	if _, err := NewPassthrough(defaultLogPath, nil); err == nil {
		t.Error("expected error for empty command")
	}
}
