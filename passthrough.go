package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// Passthrough runs a child command under a PTY, relaying terminal I/O
// unmodified while mouse events decoded from stdin are tee'd to the
// log file. The child receives every input byte, mouse sequences
// included, so interactive programs keep working under capture.
type Passthrough struct {
	cmd     *exec.Cmd
	ptmx    *os.File
	decoder *Decoder
	ring    *EventRing
	log     io.Writer
	logFile *os.File
	done    chan struct{}
	once    sync.Once
}

// NewPassthrough prepares a passthrough for the given command line.
func NewPassthrough(logPath string, command []string) (*Passthrough, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("no command given")
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Env = os.Environ()

	return &Passthrough{
		cmd:     cmd,
		decoder: NewDecoder(),
		ring:    NewEventRing(ringCapacity),
		log:     logFile,
		logFile: logFile,
		done:    make(chan struct{}),
	}, nil
}

// Run starts the child and relays I/O until it exits or stdin closes.
func (p *Passthrough) Run() error {
	ptmx, err := pty.Start(p.cmd)
	if err != nil {
		p.logFile.Close()
		return fmt.Errorf("start pty: %w", err)
	}
	p.ptmx = ptmx

	fd := int(os.Stdin.Fd())
	oldState, err := enableRawMode(fd)
	if err != nil {
		ptmx.Close()
		p.cmd.Process.Kill()
		p.cmd.Wait()
		p.logFile.Close()
		return fmt.Errorf("enable raw mode: %w", err)
	}

	enableMouseTracking(os.Stdout)
	p.resize()
	go p.handleSigwinch()

	fmt.Fprintln(p.log, "READY")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		p.relayOutput()
	}()

	go func() {
		defer wg.Done()
		p.relayInput()
	}()

	<-p.done

	disableMouseTracking(os.Stdout)
	finishRelay(
		func() { restoreTerminal(fd, oldState) },
		func() { p.ptmx.Close() },
		func() { os.Stdin.Close() },
	)

	wg.Wait()

	p.cmd.Wait() // reap child process
	p.logFile.Close()

	fmt.Printf("captured %d mouse events\n", p.ring.Total())
	return nil
}

// finishRelay tears down after the relay stops. The terminal must be
// restored first, while its fd is still open — term.Restore fails on a
// closed fd, which would leave the terminal in raw mode. Only then are
// the PTY (unblocks relayOutput) and stdin (unblocks relayInput)
// closed.
func finishRelay(restore, closePTY, closeInput func()) {
	restore()
	closePTY()
	closeInput()
}

// relayOutput copies child output to the terminal.
func (p *Passthrough) relayOutput() {
	defer p.signalDone()
	io.Copy(os.Stdout, p.ptmx)
}

// relayInput forwards stdin to the child while teeing decoded mouse
// events to the log. Events go to the log file only; stdout belongs to
// the child.
func (p *Passthrough) relayInput() {
	defer p.signalDone()

	buf := make([]byte, readChunkSize)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, werr := p.ptmx.Write(chunk); werr != nil {
				return
			}
			for _, ev := range p.decoder.Feed(chunk) {
				fmt.Fprintf(p.log, "%s\n", ev)
				p.ring.Add(ev)
			}
		}
		if err != nil {
			return
		}
	}
}

// resize propagates the current terminal size to the child PTY.
func (p *Passthrough) resize() {
	fd := int(os.Stdin.Fd())
	rows, cols, err := getTerminalSize(fd)
	if err != nil {
		return
	}
	pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// handleSigwinch forwards terminal resize signals to the child PTY.
func (p *Passthrough) handleSigwinch() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	for {
		select {
		case <-sigCh:
			p.resize()
		case <-p.done:
			signal.Stop(sigCh)
			return
		}
	}
}

// signalDone signals that the passthrough should shut down.
func (p *Passthrough) signalDone() {
	p.once.Do(func() {
		close(p.done)
	})
}
