package p2p

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/ratelimit"
)

// Handler is called with the payload of every frame a listener reads.
type Handler func(from string, payload []byte) error

// ListenerConfig represents the settings for a listener.
type ListenerConfig struct {
	Host             string
	ReadTimeout      time.Duration
	MaxPayload       int
	InboundPerSecond int
	Handler          Handler
	EvHandler        EventHandler
}

// Listener accepts connections from peers. Every connection is handled on
// its own goroutine and carries one frame.
type Listener struct {
	cfg     ListenerConfig
	ln      net.Listener
	limiter ratelimit.Limiter
	wg      sync.WaitGroup
	closed  atomic.Bool
	done    chan struct{}
}

// Accept errors other than a closed socket are retried with a delay that
// starts at minAcceptDelay and doubles up to maxAcceptDelay.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Listen binds the configured host. Call Serve to start accepting.
func Listen(cfg ListenerConfig) (*Listener, error) {
	if cfg.Handler == nil {
		return nil, errors.New("listener requires a handler")
	}

	if cfg.EvHandler == nil {
		cfg.EvHandler = func(v string, args ...any) {}
	}

	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = MaxPayload
	}

	ln, err := net.Listen("tcp", cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Host, err)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.InboundPerSecond > 0 {
		limiter = ratelimit.New(cfg.InboundPerSecond)
	}

	l := Listener{
		cfg:     cfg,
		ln:      ln,
		limiter: limiter,
		done:    make(chan struct{}),
	}

	return &l, nil
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Serve accepts connections until Shutdown is called. It always returns
// ErrListenerClosed once every connection in flight has been handled.
func (l *Listener) Serve() error {
	l.cfg.EvHandler("p2p: serve: started: %s", l.Addr())
	defer l.cfg.EvHandler("p2p: serve: completed: %s", l.Addr())

	var delay time.Duration
	for {
		l.limiter.Take()

		conn, err := l.ln.Accept()
		if err != nil {
			if l.closed.Load() || errors.Is(err, net.ErrClosed) {
				l.wg.Wait()
				return ErrListenerClosed
			}

			delay = acceptDelay(delay)
			l.cfg.EvHandler("p2p: serve: accept: ERROR: %s: retrying in %v", err, delay)

			select {
			case <-time.After(delay):
			case <-l.done:
			}
			continue
		}
		delay = 0

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.handle(conn)
		}()
	}
}

// Shutdown closes the listening socket. Connections already accepted are
// allowed to finish.
func (l *Listener) Shutdown() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.done)

	return l.ln.Close()
}

// acceptDelay returns the wait before the next accept after a failure.
func acceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

// handle reads exactly one frame from the connection and passes the
// payload to the handler.
func (l *Listener) handle(conn net.Conn) {
	defer conn.Close()

	from := conn.RemoteAddr().String()

	if l.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(l.cfg.ReadTimeout)); err != nil {
			l.cfg.EvHandler("p2p: handle: %s: deadline: ERROR: %s", from, err)
			return
		}
	}

	payload, err := ReadFrame(conn, l.cfg.MaxPayload)
	if err != nil {
		l.cfg.EvHandler("p2p: handle: %s: read: ERROR: %s", from, err)
		return
	}

	if err := l.cfg.Handler(from, payload); err != nil {
		l.cfg.EvHandler("p2p: handle: %s: handler: ERROR: %s", from, err)
	}
}
