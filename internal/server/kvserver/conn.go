package kvserver

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/minikv-go/internal/core/command"
	"github.com/yndnr/minikv-go/internal/core/domain"
	"github.com/yndnr/minikv-go/internal/telemetry/logger"
	"github.com/yndnr/minikv-go/pkg/resp"
)

// readChunk is the minimum free space offered to each socket read.
const readChunk = 4096

// connState is the position of a connection in its request cycle.
type connState int32

const (
	stateReading connState = iota
	stateDispatching
	stateWriting
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateDispatching:
		return "dispatching"
	case stateWriting:
		return "writing"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// errPendingTooLarge is returned when a single request outgrows the buffer bound.
var errPendingTooLarge = errors.New("request exceeds buffer limit")

// conn is one client connection. Its buffer and socket are owned by the
// serving goroutine; only close may be called from elsewhere.
type conn struct {
	id      string
	srv     *Server
	nc      net.Conn
	log     logger.Logger
	dec     resp.Decoder
	limiter *rate.Limiter

	// buf[off:] holds bytes read but not yet decoded.
	buf []byte
	off int
	// maxPending bounds buf[off:] while a request is incomplete.
	maxPending int

	wbuf []byte

	state  atomic.Int32
	closed atomic.Bool
	opened time.Time
}

func newConn(s *Server, nc net.Conn, id string) *conn {
	c := &conn{
		id:  id,
		srv: s,
		nc:  nc,
		log: s.logger.With("conn_id", id, "remote", nc.RemoteAddr().String()),
		dec: resp.Decoder{
			MaxBulkLen:  s.cfg.MaxBulkLen,
			MaxArrayLen: s.cfg.MaxArrayLen,
		},
		opened: time.Now(),
	}

	bulk := s.cfg.MaxBulkLen
	if bulk <= 0 {
		bulk = resp.DefaultMaxBulkLen
	}
	// Room for a SET with a maximal key and value plus framing.
	c.maxPending = 2*bulk + resp.DefaultMaxLineLen

	if s.cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}
	return c
}

func (c *conn) setState(st connState) {
	c.state.Store(int32(st))
}

func (c *conn) getState() connState {
	return connState(c.state.Load())
}

// close releases the socket. Safe to call more than once and from any goroutine.
func (c *conn) close() {
	if c.closed.CompareAndSwap(false, true) {
		_ = c.nc.Close()
	}
}

// serve runs the read, dispatch, write cycle until the connection closes.
func (c *conn) serve(ctx context.Context) {
	ctx = logger.WithConnID(ctx, c.id)

	defer c.finish()
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("connection handler panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	c.log.Debug("connection opened")

	for {
		c.setState(stateReading)
		f, err := c.readFrame()
		if err != nil {
			c.handleReadError(err)
			return
		}

		c.setState(stateDispatching)
		reply := c.dispatch(ctx, f)

		c.setState(stateWriting)
		if err := c.writeFrame(reply); err != nil {
			if !c.closed.Load() {
				c.log.Debug("write failed", "error", err)
			}
			return
		}
	}
}

func (c *conn) finish() {
	c.setState(stateClosed)
	c.close()
	// Free the admission slot before the connection leaves the registry.
	if c.srv.gate != nil {
		c.srv.gate.Release(1)
	}
	c.srv.conns.Delete(c.id)
	c.srv.metrics.ConnectionClosed()
	c.log.Debug("connection closed", "duration", time.Since(c.opened))
}

// readFrame returns the next complete frame, reading from the socket as needed.
func (c *conn) readFrame() (resp.Frame, error) {
	for {
		if c.off < len(c.buf) {
			f, n, err := c.dec.Next(c.buf[c.off:])
			if err == nil {
				c.off += n
				return f, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				return resp.Frame{}, err
			}
			if len(c.buf)-c.off > c.maxPending {
				return resp.Frame{}, errPendingTooLarge
			}
		}
		if err := c.fill(); err != nil {
			return resp.Frame{}, err
		}
	}
}

// fill reads more bytes into the buffer. Decoded frames must not be in use.
func (c *conn) fill() error {
	// Compact: drop consumed bytes.
	if c.off > 0 {
		n := copy(c.buf, c.buf[c.off:])
		c.buf = c.buf[:n]
		c.off = 0
	}
	if cap(c.buf)-len(c.buf) < readChunk {
		grown := make([]byte, len(c.buf), 2*cap(c.buf)+readChunk)
		copy(grown, c.buf)
		c.buf = grown
	}

	timeout := c.srv.cfg.ReadTimeout
	if len(c.buf) == 0 {
		timeout = c.srv.cfg.IdleTimeout
	}
	if err := setDeadline(c.nc.SetReadDeadline, timeout); err != nil {
		return err
	}

	n, err := c.nc.Read(c.buf[len(c.buf):cap(c.buf)])
	c.buf = c.buf[:len(c.buf)+n]
	if n > 0 {
		return nil
	}
	if err == nil {
		// A zero-byte read without error is treated as an orderly close.
		return io.EOF
	}
	return err
}

func (c *conn) handleReadError(err error) {
	var netErr net.Error

	switch {
	case errors.Is(err, io.EOF):
		c.log.Debug("connection closed by peer")
	case c.closed.Load() || errors.Is(err, net.ErrClosed):
		c.log.Debug("connection closed by server")
	case errors.As(err, &netErr) && netErr.Timeout():
		c.log.Debug("connection timed out", "state", c.getState().String())
	case errors.Is(err, resp.ErrLimitExceeded) || errors.Is(err, errPendingTooLarge):
		c.log.Warn("protocol limit exceeded", "error", err)
		c.srv.metrics.RecordProtocolError("limit")
		_ = c.writeFrame(errorReply(domain.ErrProtocolLimit))
	case errors.Is(err, resp.ErrProtocol):
		// Framing is lost; nothing can be safely sent back.
		c.log.Warn("protocol error", "error", err)
		c.srv.metrics.RecordProtocolError("malformed")
	default:
		c.log.Debug("read failed", "error", err)
	}
}

// dispatch turns one request frame into its reply.
func (c *conn) dispatch(ctx context.Context, f resp.Frame) resp.Frame {
	cmd := command.Parse(f)
	name := cmd.Name()

	if c.limiter != nil && !c.limiter.Allow() {
		c.srv.metrics.RecordCommand(name, "rate_limited", 0)
		return errorReply(domain.ErrRateLimited)
	}

	start := time.Now()
	reply := execute(c.srv.kv, cmd)

	status := "ok"
	if u, ok := cmd.(command.Unsupported); ok {
		status = domain.GetErrorCode(u.Err)
		if status == "" {
			status = "error"
		}
		logger.L(ctx).Debug("command rejected", "command", name, "code", status, "reply", reply.Str)
	} else if reply.Kind == resp.KindError {
		status = "error"
	}
	c.srv.metrics.RecordCommand(name, status, time.Since(start))

	return reply
}

func (c *conn) writeFrame(f resp.Frame) error {
	c.wbuf = resp.AppendFrame(c.wbuf[:0], f)
	if err := setDeadline(c.nc.SetWriteDeadline, c.srv.cfg.WriteTimeout); err != nil {
		return err
	}
	_, err := c.nc.Write(c.wbuf)
	return err
}

// setDeadline applies d from now, or clears the deadline when d is zero.
func setDeadline(set func(time.Time) error, d time.Duration) error {
	if d <= 0 {
		return set(time.Time{})
	}
	return set(time.Now().Add(d))
}
