package p2p_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/p2p"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, p2p.WriteFrame(&buf, []byte("hello")))
	require.Equal(t, 4+5, buf.Len())
	require.Equal(t, uint32(5), binary.BigEndian.Uint32(buf.Bytes()[:4]))

	payload, err := p2p.ReadFrame(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), payload)
}

func TestFrameLimits(t *testing.T) {
	t.Run("write", func(t *testing.T) {
		err := p2p.WriteFrame(&bytes.Buffer{}, make([]byte, p2p.MaxPayload+1))
		require.ErrorIs(t, err, p2p.ErrPayloadTooLarge)
	})

	t.Run("read", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, p2p.WriteFrame(&buf, make([]byte, 64)))

		_, err := p2p.ReadFrame(&buf, 32)
		require.ErrorIs(t, err, p2p.ErrPayloadTooLarge)
	})

	t.Run("short", func(t *testing.T) {
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], 10)
		buf := bytes.NewBuffer(append(header[:], 'a', 'b'))

		_, err := p2p.ReadFrame(buf, 0)
		require.ErrorIs(t, err, p2p.ErrMalformedPayload)
	})

	t.Run("header", func(t *testing.T) {
		_, err := p2p.ReadFrame(bytes.NewBuffer([]byte{0, 1}), 0)
		require.ErrorIs(t, err, p2p.ErrMalformedPayload)
	})
}

func TestMessage(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	msg, err := p2p.NewMessage(p2p.MessageTypeBlock, payload{Name: "genesis"})
	require.NoError(t, err)

	data, err := msg.Encode()
	require.NoError(t, err)

	got, err := p2p.DecodeMessage(data)
	require.NoError(t, err)
	require.Equal(t, p2p.MessageTypeBlock, got.Type)

	var p payload
	require.NoError(t, got.ParsePayload(&p))
	require.Equal(t, "genesis", p.Name)

	bad := []string{
		`not json`,
		`{"type":"block"}`,
		`{"type":"block","payload":{},"extra":1}`,
		`{"type":"block","payload":{}} {}`,
	}
	for _, b := range bad {
		_, err := p2p.DecodeMessage([]byte(b))
		assert.ErrorIs(t, err, p2p.ErrMalformedPayload, b)
	}

	unknown := p2p.Message{Type: p2p.MessageTypeBlock, Payload: []byte(`{"name":"x","age":3}`)}
	require.ErrorIs(t, unknown.ParsePayload(&p), p2p.ErrMalformedPayload)
}

// =============================================================================

type collector struct {
	mu       sync.Mutex
	payloads [][]byte
	events   []string
}

func (c *collector) handler(from string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payloads = append(c.payloads, payload)
	if string(payload) == "fail" {
		return errors.New("rejected")
	}
	return nil
}

func (c *collector) ev(v string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, v)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.payloads)
}

func startListener(t *testing.T, c *collector) (*p2p.Listener, chan error) {
	l, err := p2p.Listen(p2p.ListenerConfig{
		Host:        "127.0.0.1:0",
		ReadTimeout: time.Second,
		MaxPayload:  1024,
		Handler:     c.handler,
		EvHandler:   c.ev,
	})
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- l.Serve()
	}()

	return l, serveErr
}

func TestListener(t *testing.T) {
	var c collector
	l, serveErr := startListener(t, &c)

	ctx := context.Background()

	require.NoError(t, p2p.Send(ctx, l.Addr(), []byte("one"), time.Second))
	require.Eventually(t, func() bool { return c.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Garbage, an oversized frame, a handler failure and an empty
	// connection must not stop the accept loop.
	conn, err := net.Dial("tcp", l.Addr())
	require.NoError(t, err)
	_, err = conn.Write([]byte{0xff, 0xff})
	require.NoError(t, err)
	conn.Close()

	_ = p2p.Send(ctx, l.Addr(), make([]byte, 2048), time.Second)
	require.NoError(t, p2p.Send(ctx, l.Addr(), []byte("fail"), time.Second))

	conn, err = net.Dial("tcp", l.Addr())
	require.NoError(t, err)
	conn.Close()

	require.NoError(t, p2p.Send(ctx, l.Addr(), []byte("two"), time.Second))
	require.Eventually(t, func() bool { return c.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, l.Shutdown())

	select {
	case err := <-serveErr:
		require.ErrorIs(t, err, p2p.ErrListenerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}

	require.NoError(t, l.Shutdown())
}

func TestSendUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host := ln.Addr().String()
	ln.Close()

	err = p2p.Send(context.Background(), host, []byte("x"), 200*time.Millisecond)
	require.ErrorIs(t, err, p2p.ErrPeerUnreachable)

	err = p2p.Send(context.Background(), host, make([]byte, p2p.MaxPayload+1), time.Second)
	require.ErrorIs(t, err, p2p.ErrPayloadTooLarge)
}
