// Package bridge implements the Godot editor command protocol: the wire
// types, newline-delimited JSON framing, and the client-side Connector that
// owns one connection to the editor process.
package bridge

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Request is one command sent to the editor.
type Request struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// Response is the editor's reply to a single Request. Result is populated on
// success, Code and Message on error.
type Response struct {
	Status  string         `json:"status"`
	Result  map[string]any `json:"result,omitempty"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// maxFrameBytes bounds a single wire message. Scene dumps and script bodies
// fit comfortably; anything larger indicates a desynchronized stream.
const maxFrameBytes = 64 << 20

// WriteFrame marshals v and writes it as one newline-terminated frame.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one newline-terminated frame, growing as needed up to
// maxFrameBytes. The returned slice excludes the trailing newline.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > maxFrameBytes {
			return nil, fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)
		}
		if err == nil {
			return bytes.TrimSuffix(buf, []byte{'\n'}), nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return nil, err
	}
}
