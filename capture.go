package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

const (
	defaultLogPath = "/tmp/mouse-events.log"
	readChunkSize  = 4096
	ringCapacity   = 1024
	summaryEvents  = 5
)

// Capture decodes mouse input on the controlling terminal and fans
// each event out to the log file, the terminal, the record file (when
// recording), and an in-memory ring used for the exit summary.
type Capture struct {
	decoder *Decoder
	ring    *EventRing
	log     io.Writer
	echo    io.Writer // terminal echo, CRLF line endings (raw mode)
	rec     io.Writer // nil when not recording

	logFile *os.File
	recFile *os.File
}

// NewCapture opens the log file (and the record file, when recPath is
// non-empty) and returns a capture ready to run.
func NewCapture(logPath, recPath string) (*Capture, error) {
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	c := &Capture{
		decoder: NewDecoder(),
		ring:    NewEventRing(ringCapacity),
		log:     logFile,
		echo:    os.Stdout,
		logFile: logFile,
	}

	if recPath != "" {
		recFile, err := os.Create(recPath)
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("open record file: %w", err)
		}
		c.rec = recFile
		c.recFile = recFile
	}

	return c, nil
}

// Run arms mouse tracking and decodes stdin until a quit key, EOF, or
// read error. The terminal is restored and tracking disarmed on every
// exit path. Blocks until capture ends.
func (c *Capture) Run() error {
	fd := int(os.Stdin.Fd())
	oldState, err := enableRawMode(fd)
	if err != nil {
		c.close()
		return fmt.Errorf("enable raw mode: %w", err)
	}

	enableMouseTracking(os.Stdout)
	defer func() {
		disableMouseTracking(os.Stdout)
		restoreTerminal(fd, oldState)
		c.close()
		c.printSummary(os.Stdout)
	}()

	c.ready()

	buf := make([]byte, readChunkSize)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if c.processChunk(buf[:n]) {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// ready announces that mouse tracking is armed. E2E harnesses wait for
// this line before synthesizing input.
func (c *Capture) ready() {
	fmt.Fprintln(c.log, "READY")
	fmt.Fprint(c.echo, "READY\r\n")
	if c.rec != nil {
		c.rec.Write(EncodeRecord(Record{Type: RecReady}))
	}
}

// processChunk records, checks for quit, and decodes one input read.
// Reports whether capture should stop.
func (c *Capture) processChunk(chunk []byte) bool {
	if c.rec != nil {
		c.rec.Write(EncodeRecord(Record{Type: RecChunk, Payload: chunk}))
	}

	// A literal q quits, but only when the chunk carries no escape and
	// no split sequence is pending — a q inside a sequence body must
	// not be mistaken for the quit key.
	if bytes.IndexByte(chunk, 'q') != -1 &&
		bytes.IndexByte(chunk, 0x1b) == -1 &&
		!c.decoder.Pending() {
		return true
	}

	for _, ev := range c.decoder.Feed(chunk) {
		c.emit(ev)
	}
	return false
}

// emit delivers one decoded event to every sink.
func (c *Capture) emit(ev Event) {
	line := ev.String()
	fmt.Fprintf(c.log, "%s\n", line)
	fmt.Fprintf(c.echo, "%s\r\n", line)
	if c.rec != nil {
		c.rec.Write(EncodeRecord(Record{Type: RecEvent, Payload: []byte(line)}))
	}
	c.ring.Add(ev)
}

// printSummary writes a short recap after the terminal is restored.
func (c *Capture) printSummary(w io.Writer) {
	fmt.Fprintf(w, "captured %d mouse events\n", c.ring.Total())
	last := c.ring.Last(summaryEvents)
	for _, ev := range last {
		fmt.Fprintf(w, "  %s\n", ev)
	}
}

// close flushes and closes the capture's files.
func (c *Capture) close() {
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
	}
	if c.recFile != nil {
		c.recFile.Close()
		c.recFile = nil
	}
}
