package wire

import (
	"fmt"
	"io"
)

// headerLen is the fixed width of the hex-ASCII byte-count header that
// precedes every frame's payload on the wire.
const headerLen = 6

// ReadFrame reads one length-delimited frame from r and parses its payload
// as a single Value. The length header is six hex-ASCII digits, matching
// the wire's "hex-ASCII byte-count followed by the payload" framing.
func ReadFrame(r io.Reader) (Value, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Value{}, err
	}
	var n int
	if _, err := fmt.Sscanf(string(header[:]), "%06x", &n); err != nil {
		return Value{}, fmt.Errorf("malformed-rpc: bad frame header %q: %w", header, err)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Value{}, err
	}
	return ParseValue(string(payload))
}

// WriteFrame writes v to w as one length-delimited frame.
func WriteFrame(w io.Writer, v Value) error {
	payload := WriteValue(v)
	header := fmt.Sprintf("%06x", len(payload))
	if len(header) != headerLen {
		return fmt.Errorf("frame payload too large: %d bytes", len(payload))
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := io.WriteString(w, payload)
	return err
}
