package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits to prevent DoS attacks.
const (
	// DefaultMaxBulkLen limits the size of a single bulk string (16MB).
	DefaultMaxBulkLen = 16 * 1024 * 1024

	// DefaultMaxArrayLen limits the number of elements in an array.
	DefaultMaxArrayLen = 1024

	// DefaultMaxLineLen limits simple/error/integer lines and length headers (64KB).
	DefaultMaxLineLen = 64 * 1024

	// DefaultMaxDepth limits array nesting.
	DefaultMaxDepth = 8
)

var (
	// ErrIncomplete means the buffer holds a prefix of a frame. Read more and retry.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrProtocol means the buffered bytes can never form a valid frame.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded means a declared length is beyond the decoder limits.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// Decoder parses frames from the front of a byte buffer.
// A zero field means the corresponding Default* limit.
type Decoder struct {
	MaxBulkLen  int
	MaxArrayLen int
	MaxLineLen  int
	MaxDepth    int
}

var defaultDecoder = &Decoder{}

// DecodeNext parses one frame from buf using the default limits.
func DecodeNext(buf []byte) (Frame, int, error) {
	return defaultDecoder.Next(buf)
}

// Next parses exactly one frame from the front of buf.
//
// On success it returns the frame and the number of bytes consumed. Bulk
// payloads alias buf; callers that retain them past the next buffer
// mutation must copy. ErrIncomplete is returned when buf is a strict
// prefix of a valid frame. Errors wrapping ErrProtocol or ErrLimitExceeded
// are final for the stream.
func (d *Decoder) Next(buf []byte) (Frame, int, error) {
	return d.decode(buf, 0)
}

func (d *Decoder) decode(buf []byte, depth int) (Frame, int, error) {
	if len(buf) == 0 {
		return Frame{}, 0, ErrIncomplete
	}

	switch tag := Kind(buf[0]); tag {
	case KindSimple, KindError:
		line, n, err := d.readLine(buf)
		if err != nil {
			return Frame{}, 0, err
		}
		return Frame{Kind: tag, Str: string(line)}, n, nil

	case KindInteger:
		line, n, err := d.readLine(buf)
		if err != nil {
			return Frame{}, 0, err
		}
		v, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			return Frame{}, 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
		}
		return Frame{Kind: KindInteger, Int: v}, n, nil

	case KindBulk:
		return d.decodeBulk(buf)

	case KindArray:
		return d.decodeArray(buf, depth)

	default:
		return Frame{}, 0, fmt.Errorf("%w: invalid type tag %q", ErrProtocol, buf[0])
	}
}

func (d *Decoder) decodeBulk(buf []byte) (Frame, int, error) {
	line, n, err := d.readLine(buf)
	if err != nil {
		return Frame{}, 0, err
	}
	size, err := parseLength(line)
	if err != nil {
		return Frame{}, 0, fmt.Errorf("%w: invalid bulk length", ErrProtocol)
	}
	if size == -1 {
		return Null(), n, nil
	}
	if limit := d.maxBulkLen(); size > limit {
		return Frame{}, 0, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, size, limit)
	}

	end := n + size + 2
	if len(buf) < end {
		return Frame{}, 0, ErrIncomplete
	}
	if buf[n+size] != '\r' || buf[n+size+1] != '\n' {
		return Frame{}, 0, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}
	return Frame{Kind: KindBulk, Bulk: buf[n : n+size : n+size]}, end, nil
}

func (d *Decoder) decodeArray(buf []byte, depth int) (Frame, int, error) {
	line, n, err := d.readLine(buf)
	if err != nil {
		return Frame{}, 0, err
	}
	count, err := parseLength(line)
	if err != nil {
		return Frame{}, 0, fmt.Errorf("%w: invalid array length", ErrProtocol)
	}
	if count == -1 {
		return Null(), n, nil
	}
	if limit := d.maxArrayLen(); count > limit {
		return Frame{}, 0, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, count, limit)
	}
	if limit := d.maxDepth(); depth >= limit {
		return Frame{}, 0, fmt.Errorf("%w: array nesting exceeds limit %d", ErrLimitExceeded, limit)
	}

	elems := make([]Frame, 0, count)
	pos := n
	for i := 0; i < count; i++ {
		f, m, err := d.decode(buf[pos:], depth+1)
		if err != nil {
			return Frame{}, 0, err
		}
		elems = append(elems, f)
		pos += m
	}
	return Frame{Kind: KindArray, Array: elems}, pos, nil
}

// readLine returns the bytes between the tag and the terminating CRLF,
// and the total number of bytes the line occupies.
func (d *Decoder) readLine(buf []byte) ([]byte, int, error) {
	limit := d.maxLineLen()
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		if len(buf) > limit+2 {
			return nil, 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, limit)
		}
		return nil, 0, ErrIncomplete
	}
	if idx > limit+1 {
		return nil, 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, limit)
	}
	if idx < 2 || buf[idx-1] != '\r' {
		return nil, 0, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return buf[1 : idx-1], idx + 1, nil
}

// parseLength parses a non-negative decimal length or the literal -1.
func parseLength(b []byte) (int, error) {
	if len(b) == 2 && b[0] == '-' && b[1] == '1' {
		return -1, nil
	}
	if len(b) == 0 || len(b) > 10 {
		return 0, ErrProtocol
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrProtocol
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func (d *Decoder) maxBulkLen() int {
	if d.MaxBulkLen > 0 {
		return d.MaxBulkLen
	}
	return DefaultMaxBulkLen
}

func (d *Decoder) maxArrayLen() int {
	if d.MaxArrayLen > 0 {
		return d.MaxArrayLen
	}
	return DefaultMaxArrayLen
}

func (d *Decoder) maxLineLen() int {
	if d.MaxLineLen > 0 {
		return d.MaxLineLen
	}
	return DefaultMaxLineLen
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}
