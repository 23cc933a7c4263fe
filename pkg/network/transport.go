// Package network ships one signed transaction per TCP connection.
//
// There is no framing: the sender writes the JSON wire bytes and half-closes
// the connection, and the receiver reads until EOF. Liveness is the
// transport's job; the protocol engine has no timeouts.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/rs/zerolog"
)

// ErrMessageTooLarge is returned when a peer sends more than MaxMessageSize bytes.
var ErrMessageTooLarge = errors.New("message exceeds size limit")

// Transport sends and receives single-message connections.
type Transport struct {
	DialTimeout    time.Duration // Per-attempt dial timeout
	IOTimeout      time.Duration // Deadline for the whole read or write
	DialAttempts   uint          // Attempts before Send gives up
	MaxMessageSize int64         // Receive limit in bytes
	Backoff        time.Duration // Fibonacci backoff factor between dial attempts

	Log zerolog.Logger
}

// NewTransport returns a Transport with the default limits.
func NewTransport() *Transport {
	return &Transport{
		DialTimeout:    5 * time.Second,
		IOTimeout:      30 * time.Second,
		DialAttempts:   10,
		MaxMessageSize: 64 * 1024,
		Backoff:        50 * time.Millisecond,
		Log:            zerolog.Nop(),
	}
}

// Send connects to addr, writes payload and closes the write side.
// Dialing is retried so the sender may start before the receiver listens.
func (t *Transport) Send(ctx context.Context, addr string, payload []byte) error {
	conn, err := t.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := closeOnCancel(ctx, conn)
	defer stop()

	if err := conn.SetWriteDeadline(time.Now().Add(t.IOTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return contextErr(ctx, fmt.Errorf("failed to send to %s: %w", addr, err))
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return fmt.Errorf("failed to close write side: %w", err)
		}
	}

	t.Log.Debug().Str("addr", addr).Int("bytes", len(payload)).Msg("network: message sent")
	return nil
}

// Listen binds addr for Receive.
func (t *Transport) Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Receive accepts exactly one connection on ln and reads it to EOF.
func (t *Transport) Receive(ctx context.Context, ln net.Listener) ([]byte, error) {
	stopListener := closeOnCancel(ctx, ln)
	conn, err := ln.Accept()
	stopListener()
	if err != nil {
		return nil, contextErr(ctx, fmt.Errorf("failed to accept connection: %w", err))
	}
	defer conn.Close()

	stop := closeOnCancel(ctx, conn)
	defer stop()

	if err := conn.SetReadDeadline(time.Now().Add(t.IOTimeout)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(conn, t.MaxMessageSize+1))
	if err != nil {
		return nil, contextErr(ctx, fmt.Errorf("failed to read from %s: %w", conn.RemoteAddr(), err))
	}
	if int64(len(data)) > t.MaxMessageSize {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrMessageTooLarge, t.MaxMessageSize, conn.RemoteAddr())
	}

	t.Log.Debug().Str("peer", conn.RemoteAddr().String()).Int("bytes", len(data)).Msg("network: message received")
	return data, nil
}

func (t *Transport) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: t.DialTimeout}

	var conn net.Conn
	err := retry.Retry(
		func(attempt uint) error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			c, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				t.Log.Debug().Uint("attempt", attempt).Err(err).Str("addr", addr).Msg("network: dial failed")
				return err
			}
			conn = c
			return nil
		},
		strategy.Limit(t.DialAttempts),
		strategy.Backoff(backoff.Fibonacci(t.Backoff)),
	)
	if err := ctx.Err(); err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", addr, t.DialAttempts, err)
	}
	return conn, nil
}

// closeOnCancel closes c when ctx is cancelled. The returned func stops the
// watcher and must be called once the guarded operation finishes.
func closeOnCancel(ctx context.Context, c io.Closer) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
