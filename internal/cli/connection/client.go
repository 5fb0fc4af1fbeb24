package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/minikv-go/pkg/resp"
)

// DefaultDialTimeout bounds Dial when ctx carries no deadline.
const DefaultDialTimeout = 5 * time.Second

// ErrClosed is returned by calls on a closed Client.
var ErrClosed = errors.New("connection: client closed")

// ServerError is an error reply returned by the server.
// Text of the form "ERR <code> <message>" is split into Code and Message.
type ServerError struct {
	Code    string
	Message string
	Raw     string
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return e.Raw
	}
	return "[" + e.Code + "] " + e.Message
}

// ParseServerError builds a ServerError from error reply text.
func ParseServerError(text string) *ServerError {
	e := &ServerError{Raw: text, Message: text}
	rest, ok := strings.CutPrefix(text, "ERR ")
	if !ok {
		return e
	}
	code, msg, _ := strings.Cut(rest, " ")
	if !strings.HasPrefix(code, "MKV-") {
		e.Message = rest
		return e
	}
	e.Code = code
	e.Message = msg
	return e
}

// Options configures Dial.
type Options struct {
	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config

	// DialTimeout applies when ctx has no deadline. Zero means DefaultDialTimeout.
	DialTimeout time.Duration

	// MaxBulkLen bounds reply payloads. Zero means resp.DefaultMaxBulkLen.
	MaxBulkLen int
}

// Client is a single connection to a minikv server.
// Calls are serialized; a Client is safe for concurrent use.
type Client struct {
	addr string
	nc   net.Conn
	dec  *resp.Decoder

	mu     sync.Mutex
	buf    []byte
	wbuf   []byte
	closed bool
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, opts Options) (*Client, error) {
	if _, ok := ctx.Deadline(); !ok {
		timeout := opts.DialTimeout
		if timeout <= 0 {
			timeout = DefaultDialTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		nc  net.Conn
		err error
	)
	if opts.TLSConfig != nil {
		d := &tls.Dialer{Config: opts.TLSConfig}
		nc, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		nc, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{
		addr: addr,
		nc:   nc,
		dec:  &resp.Decoder{MaxBulkLen: opts.MaxBulkLen},
		buf:  make([]byte, 0, 4096),
	}, nil
}

// Addr returns the server address the client dialed.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and returns the reply frame. Error replies are
// returned as a frame, not as a Go error; see Get/Set for typed helpers.
func (c *Client) Do(ctx context.Context, args ...[]byte) (resp.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Frame{}, ErrClosed
	}

	deadline, _ := ctx.Deadline()
	if err := c.nc.SetDeadline(deadline); err != nil {
		return resp.Frame{}, err
	}

	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			_ = c.nc.SetDeadline(time.Unix(1, 0))
		})
		defer stop()
	}

	c.wbuf = resp.AppendFrame(c.wbuf[:0], resp.Command(args...))
	if _, err := c.nc.Write(c.wbuf); err != nil {
		return resp.Frame{}, c.ioErr(ctx, err)
	}

	f, err := c.readReply()
	if err != nil {
		return resp.Frame{}, c.ioErr(ctx, err)
	}
	return f, nil
}

// DoStrings is Do with string arguments.
func (c *Client) DoStrings(ctx context.Context, args ...string) (resp.Frame, error) {
	b := make([][]byte, len(args))
	for i, a := range args {
		b[i] = []byte(a)
	}
	return c.Do(ctx, b...)
}

// Get returns the value stored at key. ok is false when the key is absent.
func (c *Client) Get(ctx context.Context, key []byte) (value []byte, ok bool, err error) {
	f, err := c.Do(ctx, []byte("GET"), key)
	if err != nil {
		return nil, false, err
	}
	switch f.Kind {
	case resp.KindBulk:
		return f.Bulk, true, nil
	case resp.KindNull:
		return nil, false, nil
	case resp.KindError:
		return nil, false, ParseServerError(f.Str)
	default:
		return nil, false, fmt.Errorf("GET: unexpected %s reply", f.Kind)
	}
}

// Set stores value at key.
func (c *Client) Set(ctx context.Context, key, value []byte) error {
	f, err := c.Do(ctx, []byte("SET"), key, value)
	if err != nil {
		return err
	}
	return expectOK("SET", f)
}

// Ping checks liveness. With a message the server echoes it back.
func (c *Client) Ping(ctx context.Context, message string) (string, error) {
	args := [][]byte{[]byte("PING")}
	if message != "" {
		args = append(args, []byte(message))
	}
	f, err := c.Do(ctx, args...)
	if err != nil {
		return "", err
	}
	if f.Kind == resp.KindError {
		return "", ParseServerError(f.Str)
	}
	s, ok := f.Text()
	if !ok {
		return "", fmt.Errorf("PING: unexpected %s reply", f.Kind)
	}
	return s, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}

func expectOK(cmd string, f resp.Frame) error {
	switch {
	case f.Kind == resp.KindError:
		return ParseServerError(f.Str)
	case f.Kind == resp.KindSimple && f.Str == "OK":
		return nil
	default:
		return fmt.Errorf("%s: unexpected %s reply", cmd, f.Kind)
	}
}

// readReply decodes whatever a Read returned before reporting its error,
// so a reply sent just before the server closes is not lost.
func (c *Client) readReply() (resp.Frame, error) {
	tmp := make([]byte, 4096)
	var rerr error
	for {
		f, n, err := c.dec.Next(c.buf)
		if err == nil {
			f = clone(f)
			c.buf = append(c.buf[:0], c.buf[n:]...)
			return f, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return resp.Frame{}, err
		}
		if rerr != nil {
			if rerr == io.EOF {
				rerr = io.ErrUnexpectedEOF
			}
			return resp.Frame{}, rerr
		}

		var m int
		m, rerr = c.nc.Read(tmp)
		c.buf = append(c.buf, tmp[:m]...)
	}
}

// ioErr closes the connection since the stream position is unknown.
func (c *Client) ioErr(ctx context.Context, err error) error {
	if !c.closed {
		c.closed = true
		_ = c.nc.Close()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return err
}

// clone detaches bulk payloads from the read buffer.
func clone(f resp.Frame) resp.Frame {
	switch f.Kind {
	case resp.KindBulk:
		f.Bulk = append([]byte{}, f.Bulk...)
	case resp.KindArray:
		elems := make([]resp.Frame, len(f.Array))
		for i, e := range f.Array {
			elems[i] = clone(e)
		}
		f.Array = elems
	}
	return f
}
