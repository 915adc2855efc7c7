package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecordRoundTripChunk(t *testing.T) {
	rec := Record{Type: RecChunk, Payload: []byte("\x1b[<0;10;5M")}
	encoded := EncodeRecord(rec)
	decoded, err := DecodeRecord(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.Type != RecChunk {
		t.Errorf("expected type %d, got %d", RecChunk, decoded.Type)
	}
	if !bytes.Equal(decoded.Payload, rec.Payload) {
		t.Errorf("expected payload %q, got %q", rec.Payload, decoded.Payload)
	}
}

func TestRecordRoundTripReady(t *testing.T) {
	encoded := EncodeRecord(Record{Type: RecReady})
	decoded, err := DecodeRecord(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if decoded.Type != RecReady {
		t.Errorf("expected type %d, got %d", RecReady, decoded.Type)
	}
	if len(decoded.Payload) != 0 {
		t.Errorf("expected empty payload, got %v", decoded.Payload)
	}
}

func TestRecordTruncated(t *testing.T) {
	encoded := EncodeRecord(Record{Type: RecChunk, Payload: []byte("abcdef")})
	_, err := DecodeRecord(bytes.NewReader(encoded[:7]))
	if err == nil {
		t.Error("expected error for truncated record")
	}
}

func TestRecordOversizedLength(t *testing.T) {
	// A corrupt length field must error out, not allocate gigabytes.
	header := []byte{RecChunk, 0xff, 0xff, 0xff, 0xff}
	_, err := DecodeRecord(bytes.NewReader(header))
	if err == nil {
		t.Error("expected error for oversized payload length")
	}
}

func TestReplayCapture(t *testing.T) {
	// A capture whose sequence arrived split across two reads.
	var file bytes.Buffer
	file.Write(EncodeRecord(Record{Type: RecReady}))
	file.Write(EncodeRecord(Record{Type: RecChunk, Payload: []byte("\x1b[<0;10")}))
	file.Write(EncodeRecord(Record{Type: RecChunk, Payload: []byte(";5M")}))
	file.Write(EncodeRecord(Record{Type: RecEvent, Payload: []byte("press:btn=0:x=10:y=5")}))

	var out strings.Builder
	events, mismatches, err := ReplayCapture(&file, &out)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if events != 1 {
		t.Errorf("expected 1 replayed event, got %d", events)
	}
	if mismatches != 0 {
		t.Errorf("expected no mismatches, got %d", mismatches)
	}
	if out.String() != "press:btn=0:x=10:y=5\n" {
		t.Errorf("unexpected replay output: %q", out.String())
	}
}

func TestReplayCaptureMismatch(t *testing.T) {
	var file bytes.Buffer
	file.Write(EncodeRecord(Record{Type: RecChunk, Payload: []byte("\x1b[<0;1;1M")}))
	file.Write(EncodeRecord(Record{Type: RecEvent, Payload: []byte("press:btn=9:x=9:y=9")}))

	var out strings.Builder
	events, mismatches, err := ReplayCapture(&file, &out)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if events != 1 {
		t.Errorf("expected 1 replayed event, got %d", events)
	}
	if mismatches != 1 {
		t.Errorf("expected 1 mismatch, got %d", mismatches)
	}
}

func TestReplayCaptureEmpty(t *testing.T) {
	var out strings.Builder
	events, mismatches, err := ReplayCapture(bytes.NewReader(nil), &out)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if events != 0 || mismatches != 0 {
		t.Errorf("expected empty replay, got events=%d mismatches=%d", events, mismatches)
	}
}
