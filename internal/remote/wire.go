package remote

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
)

// MessageType discriminates the kind of payload in the wire protocol.
type MessageType byte

const (
	MsgCommand MessageType = 0x01
	MsgBatch   MessageType = 0x02
)

// ACK bytes written after every frame.
const (
	AckOK    byte = 0x00
	AckError byte = 0x01
)

// MaxPayload bounds a frame's JSON payload.
const MaxPayload = 10 * 1024 * 1024

// ErrTooLarge is returned for frames above MaxPayload.
var ErrTooLarge = errors.New("remote: payload too large")

// CommandMessage is one navigation command as sent over the socket.
//
// Command names the operation: back, open_in_tab, switch_tab, reselect_tab,
// clear_tab_back_stack, back_to_root, forward, replace or back_to. Tab is
// a tab tag; Screen a screen type or, for back_to, a tag.
type CommandMessage struct {
	Command        string            `json:"command"`
	Tab            string            `json:"tab,omitempty"`
	Screen         string            `json:"screen,omitempty"`
	Args           map[string]string `json:"args,omitempty"`
	AddToBackStack bool              `json:"add_to_back_stack,omitempty"`
	Tag            string            `json:"tag,omitempty"`
}

// BatchMessage carries several commands applied in order.
type BatchMessage struct {
	Commands []CommandMessage `json:"commands"`
}

// Network returns the listener network for addr on this platform: unix
// sockets everywhere but Windows, which gets TCP.
func Network() string {
	if runtime.GOOS == "windows" {
		return "tcp"
	}
	return "unix"
}

// WriteFrame writes [1 byte type][4 bytes length (big-endian)][payload].
func WriteFrame(w io.Writer, t MessageType, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrTooLarge
	}
	header := make([]byte, 5)
	header[0] = byte(t)
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame written by WriteFrame. It returns io.EOF when
// the stream ends cleanly before a frame.
func ReadFrame(r io.Reader) (MessageType, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header[:1]); err != nil {
		return 0, nil, err
	}
	if _, err := io.ReadFull(r, header[1:]); err != nil {
		return 0, nil, fmt.Errorf("reading message length: %w", err)
	}
	n := binary.BigEndian.Uint32(header[1:])
	if n > MaxPayload {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("reading payload: %w", err)
	}
	return MessageType(header[0]), payload, nil
}

// Decode turns a frame into the commands it carries.
func Decode(t MessageType, payload []byte) ([]CommandMessage, error) {
	switch t {
	case MsgCommand:
		var m CommandMessage
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("unmarshaling command: %w", err)
		}
		return []CommandMessage{m}, nil
	case MsgBatch:
		var b BatchMessage
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, fmt.Errorf("unmarshaling batch: %w", err)
		}
		return b.Commands, nil
	default:
		return nil, fmt.Errorf("unknown message type: 0x%02x", byte(t))
	}
}

// Encode builds the frame for msgs: a command frame for one message, a
// batch frame otherwise.
func Encode(msgs ...CommandMessage) (MessageType, []byte, error) {
	if len(msgs) == 1 {
		b, err := json.Marshal(msgs[0])
		return MsgCommand, b, err
	}
	b, err := json.Marshal(BatchMessage{Commands: msgs})
	return MsgBatch, b, err
}
