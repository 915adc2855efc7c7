package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Record type constants for the capture file format.
const (
	RecReady byte = 0x01 // mouse tracking armed
	RecChunk byte = 0x02 // one raw input read, byte-exact
	RecEvent byte = 0x03 // textual event line produced at capture time
)

// maxRecordPayload bounds a single record payload. Input chunks are
// at most readChunkSize and event lines are short; a larger length
// means a corrupt capture file, not a big record.
const maxRecordPayload = 1 << 20

// Record is one entry in a capture file.
// Wire format: [type:1][length:4 BE][payload:N]
type Record struct {
	Type    byte
	Payload []byte
}

// EncodeRecord serializes a record into wire format.
func EncodeRecord(rec Record) []byte {
	buf := make([]byte, 5+len(rec.Payload))
	buf[0] = rec.Type
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(rec.Payload)))
	copy(buf[5:], rec.Payload)
	return buf
}

// DecodeRecord reads a single record from the reader.
func DecodeRecord(r io.Reader) (Record, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return Record{}, fmt.Errorf("read header: %w", err)
	}

	recType := header[0]
	length := binary.BigEndian.Uint32(header[1:5])
	if length > maxRecordPayload {
		return Record{}, fmt.Errorf("record payload length %d exceeds %d", length, maxRecordPayload)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Record{}, fmt.Errorf("read payload: %w", err)
		}
	}

	return Record{Type: recType, Payload: payload}, nil
}

// ReplayCapture feeds a capture file's recorded input chunks through a
// fresh decoder and writes the resulting event lines to w, one per
// line. Event records written at capture time are cross-checked
// against the replay; mismatches is the number of positions where the
// two disagree (0 for a faithful capture). Reading stops at a clean
// end of file; a truncated record is an error.
func ReplayCapture(r io.Reader, w io.Writer) (events, mismatches int, err error) {
	dec := NewDecoder()
	var live, replayed []string

	for {
		rec, err := DecodeRecord(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return events, 0, fmt.Errorf("read capture file: %w", err)
		}

		switch rec.Type {
		case RecChunk:
			for _, ev := range dec.Feed(rec.Payload) {
				line := ev.String()
				fmt.Fprintln(w, line)
				replayed = append(replayed, line)
				events++
			}
		case RecEvent:
			live = append(live, string(rec.Payload))
		}
	}

	n := len(live)
	if len(replayed) > n {
		n = len(replayed)
	}
	for i := 0; i < n; i++ {
		if i >= len(live) || i >= len(replayed) || live[i] != replayed[i] {
			mismatches++
		}
	}
	return events, mismatches, nil
}
