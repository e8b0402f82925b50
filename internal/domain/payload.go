package domain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedPayload means the input never contained a payload marker line.
var ErrMalformedPayload = errors.New("malformed payload: no '[' marker line found")

// scanState is the payload extractor's position in the input.
type scanState int

const (
	// stateScanning discards leading lines until the marker appears.
	stateScanning scanState = iota
	// stateCollecting accumulates every remaining line verbatim.
	stateCollecting
)

// ExtractPayload isolates the JSON array embedded in raw decoder output.
// Build systems and decoder tooling prepend arbitrary log noise, so everything
// before the first line whose trimmed content is exactly "[" is discarded;
// that marker line and all lines after it are returned with their line breaks
// preserved. Returns ErrMalformedPayload if no marker line exists.
func ExtractPayload(r io.Reader) ([]byte, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var buf bytes.Buffer
	state := stateScanning

	for sc.Scan() {
		line := sc.Text()
		switch state {
		case stateScanning:
			if strings.TrimSpace(line) == "[" {
				state = stateCollecting
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
		case stateCollecting:
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan payload: %w", err)
	}
	if state == stateScanning {
		return nil, ErrMalformedPayload
	}
	return buf.Bytes(), nil
}

// DecodeRecords extracts and parses a sequence of normalized message records.
func DecodeRecords(r io.Reader) ([]MessageRecord, error) {
	payload, err := ExtractPayload(r)
	if err != nil {
		return nil, err
	}
	var records []MessageRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("parse record payload: %w", err)
	}
	return records, nil
}

// DecodeRawMessages extracts and parses a collaborator's full decode dump.
func DecodeRawMessages(r io.Reader) ([]RawMessage, error) {
	payload, err := ExtractPayload(r)
	if err != nil {
		return nil, err
	}
	var msgs []RawMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		return nil, fmt.Errorf("parse raw message payload: %w", err)
	}
	return msgs, nil
}
