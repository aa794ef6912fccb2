package p2p

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// Send opens a connection to the host, writes the payload as a single
// frame and waits for the peer to close the connection. The timeout bounds
// the dial, the write and the wait.
func Send(ctx context.Context, host string, payload []byte, timeout time.Duration) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, host, err)
	}
	defer conn.Close()

	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, host, err)
		}
	}

	if err := WriteFrame(conn, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, host, err)
	}

	// The listener closes the connection once the frame has been handled.
	// Waiting for that keeps frames sent to the same peer in order.
	if timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(timeout))
	}
	if _, err := io.Copy(io.Discard, conn); errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %s: waiting for peer: %w", ErrPeerUnreachable, host, err)
	}

	return nil
}
