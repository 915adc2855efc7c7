package main

import (
	"fmt"
	"log"
	"os"
)

const usage = `Usage: mcap [command] [options]

Commands:
  capture [-o logfile] [-r recfile]     Capture mouse events on this terminal
  decode <recfile>                      Replay a recorded capture offline
  run [-o logfile] <command> [args...]  Run a command under a PTY, logging mouse events

Options:
  --help              Show this help message

With no arguments, runs capture with the default log file.

Capture arms SGR mouse tracking (modes 1000, 1002, 1006), writes one
event per line to the log file (default /tmp/mouse-events.log), and
echoes the same lines to the terminal:

  press:btn=0:x=10:y=5
  release:btn=0:x=10:y=5
  drag:btn=0:x=12:y=5
  scroll_up:btn=64:x=10:y=5
  scroll_down:btn=65:x=10:y=5

READY is printed once tracking is armed. Press q to quit.`

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		cmdCapture(nil)
		return
	}

	switch args[0] {
	case "capture":
		cmdCapture(args[1:])
	case "decode":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Usage: mcap decode <recfile>\n")
			os.Exit(1)
		}
		cmdDecode(args[1])
	case "run":
		cmdRun(args[1:])
	case "--help", "-h", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

// cmdCapture runs live capture on the controlling terminal.
func cmdCapture(args []string) {
	logPath := defaultLogPath
	recPath := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-r":
			if i+1 < len(args) {
				recPath = args[i+1]
				i++
			}
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}

	c, err := NewCapture(logPath, recPath)
	if err != nil {
		log.Fatalf("capture: %v", err)
	}
	if err := c.Run(); err != nil {
		log.Fatalf("capture: %v", err)
	}
}

// cmdDecode replays a record file through a fresh decoder.
func cmdDecode(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	defer f.Close()

	events, mismatches, err := ReplayCapture(f, os.Stdout)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	fmt.Printf("replayed %d mouse events\n", events)
	if mismatches > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d events differ from the live capture\n", mismatches)
		os.Exit(1)
	}
}

// cmdRun executes a command under a PTY with mouse capture.
func cmdRun(args []string) {
	logPath := defaultLogPath
	i := 0
	for i < len(args) {
		if args[i] == "-o" && i+1 < len(args) {
			logPath = args[i+1]
			i += 2
			continue
		}
		break
	}
	command := args[i:]
	if len(command) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: mcap run [-o logfile] <command> [args...]\n")
		os.Exit(1)
	}

	p, err := NewPassthrough(logPath, command)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	if err := p.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
