package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

// ErrRejected is returned by Send when the host answers with AckError.
var ErrRejected = errors.New("remote: command rejected by host")

// Send delivers msgs to the control socket at addr as a single frame and
// waits for the ACK.
func Send(ctx context.Context, addr string, msgs ...CommandMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	t, payload, err := Encode(msgs...)
	if err != nil {
		return fmt.Errorf("encoding commands: %w", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, Network(), addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := WriteFrame(conn, t, payload); err != nil {
		return err
	}

	ack := make([]byte, 1)
	if _, err := io.ReadFull(conn, ack); err != nil {
		return fmt.Errorf("reading ack: %w", err)
	}
	if ack[0] != AckOK {
		return ErrRejected
	}
	return nil
}
