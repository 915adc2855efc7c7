package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a decoded mouse event.
type Kind uint8

const (
	// KindPress is a button press (terminator M, button < 32).
	KindPress Kind = iota
	// KindRelease is a button release (terminator m).
	KindRelease
	// KindDrag is motion with a button held (terminator M, 32 <= button < 64).
	KindDrag
	// KindScrollUp is a wheel-up tick (terminator M, button 64).
	KindScrollUp
	// KindScrollDown is a wheel-down tick (terminator M, button >= 64, not 64).
	KindScrollDown
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPress:
		return "press"
	case KindRelease:
		return "release"
	case KindDrag:
		return "drag"
	case KindScrollUp:
		return "scroll_up"
	case KindScrollDown:
		return "scroll_down"
	default:
		return "unknown"
	}
}

// Event is one decoded SGR mouse event. X and Y are 1-based terminal
// cell coordinates. Button is the normalized logical button number:
// drags have the motion bit (32) removed, everything else is reported
// as written on the wire.
type Event struct {
	Kind   Kind
	Button int
	X      int
	Y      int
}

// String returns the textual event form, e.g. "press:btn=0:x=10:y=5".
func (e Event) String() string {
	return fmt.Sprintf("%s:btn=%d:x=%d:y=%d", e.Kind, e.Button, e.X, e.Y)
}

// decodeState tracks what the decoder is scanning for.
type decodeState uint8

const (
	stateSeekIntroducer decodeState = iota // looking for ESC [ <
	stateSeekTerminator                    // introducer at buffer start, looking for M/m
)

// introducer is the fixed 3-byte SGR mouse sequence prefix.
var introducer = []byte{0x1b, '[', '<'}

// Decoder is a streaming decoder for SGR mouse escape sequences
// (ESC [ < button ; x ; y M/m). Bytes are fed in as they arrive from
// the terminal, in chunks of any size; completed events come out.
// Incomplete trailing sequences are buffered until a later Feed
// completes them. A Decoder is not safe for concurrent use; separate
// instances are fully independent.
type Decoder struct {
	buf   []byte
	state decodeState
}

// NewDecoder creates a decoder with an empty buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends data to the decoder's buffer and returns all events
// whose sequences completed, in stream order. It never blocks and
// never fails: malformed sequence bodies are dropped, bytes preceding
// an introducer are discarded as noise, and an incomplete tail is
// retained for the next call.
func (d *Decoder) Feed(data []byte) []Event {
	d.buf = append(d.buf, data...)

	var events []Event
	for {
		if d.state == stateSeekIntroducer {
			idx := bytes.Index(d.buf, introducer)
			if idx == -1 {
				d.discardNoise()
				return events
			}
			// Bytes before the introducer are noise — drop them.
			d.buf = d.buf[idx:]
			d.state = stateSeekTerminator
		}

		term, esc := scanBody(d.buf)
		if esc >= 0 {
			// A new escape inside the body abandons the sequence.
			// Restart matching from this ESC.
			d.buf = d.buf[esc:]
			d.state = stateSeekIntroducer
			continue
		}
		if term < 0 {
			// Incomplete — wait for more data.
			return events
		}

		ev, ok := classify(d.buf[3:term], d.buf[term])
		d.buf = d.buf[term+1:]
		d.state = stateSeekIntroducer
		if ok {
			events = append(events, ev)
		}
	}
}

// Pending reports whether the decoder holds bytes of a possible
// sequence awaiting completion.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0
}

// scanBody scans past the introducer for a terminator. Returns the
// terminator index, or the index of an interrupting ESC, or -1 for
// both when the buffer ends first.
func scanBody(buf []byte) (term, esc int) {
	for i := 3; i < len(buf); i++ {
		switch buf[i] {
		case 'M', 'm':
			return i, -1
		case 0x1b:
			return -1, i
		}
	}
	return -1, -1
}

// discardNoise drops all buffered bytes except a trailing proper
// prefix of the introducer, which may be completed by the next feed.
// Keeps the buffer bounded when the stream carries no mouse sequences.
func (d *Decoder) discardNoise() {
	keep := 0
	if bytes.HasSuffix(d.buf, introducer[:2]) {
		keep = 2
	} else if len(d.buf) > 0 && d.buf[len(d.buf)-1] == 0x1b {
		keep = 1
	}
	d.buf = d.buf[len(d.buf)-keep:]
}

// classify parses a sequence body ("button;x;y") and its terminator
// into an event. Returns ok=false for a malformed body, which the
// caller drops.
func classify(body []byte, terminator byte) (Event, bool) {
	parts := strings.Split(string(body), ";")
	if len(parts) != 3 {
		return Event{}, false
	}

	button, err := strconv.Atoi(parts[0])
	if err != nil || button < 0 {
		return Event{}, false
	}
	x, err := strconv.Atoi(parts[1])
	if err != nil || x < 0 {
		return Event{}, false
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil || y < 0 {
		return Event{}, false
	}

	var kind Kind
	switch {
	case terminator == 'm':
		// Release keeps the wire button value, no drag-bit adjustment.
		kind = KindRelease
	case button >= 64:
		// Only 64/65 are wheel ticks in SGR encoding. Anything else
		// >= 64 (extended buttons) is conflated with scroll_down
		// here, a known simplification kept for compatibility.
		if button == 64 {
			kind = KindScrollUp
		} else {
			kind = KindScrollDown
		}
	case button >= 32:
		kind = KindDrag
		button -= 32
	default:
		kind = KindPress
	}

	return Event{Kind: kind, Button: button, X: x, Y: y}, true
}
