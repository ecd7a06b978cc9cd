package cookiebridge

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize caps native messaging payloads. Browsers reject host messages
// above 1 MB.
const MaxFrameSize = 1 << 20

// Request is one incoming extension message: a 4-byte little-endian length
// prefix followed by this JSON shape. ID correlates the response.
type Request struct {
	ID      int             `json:"id"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers one Request. Exactly one of the result fields is set on
// success; Error is set instead when the operation failed.
type Response struct {
	ID    int    `json:"id"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	Cookies []wireCookie   `json:"cookies,omitempty"`
	Cookie  *wireCookie    `json:"cookie,omitempty"`
	Details *RemovalDetail `json:"details,omitempty"`
	Message string         `json:"message,omitempty"`
	Results *BulkResult    `json:"results,omitempty"`
}

// ReadFrame reads one length-prefixed message from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("cookiebridge: frame too large: %d bytes (max %d)", length, MaxFrameSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteFrame writes msg to w with the length prefix.
func WriteFrame(w io.Writer, msg []byte) error {
	if len(msg) > MaxFrameSize {
		return fmt.Errorf("cookiebridge: frame too large: %d bytes (max %d)", len(msg), MaxFrameSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(msg))); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

func errorResponse(id int, err error) Response {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Response{ID: id, Error: msg}
}
