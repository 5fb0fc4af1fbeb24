// Package resp implements the minikv wire codec.
//
// Frames use a minimal tagged, CRLF-delimited encoding:
//
//   - Simple string: "+OK\r\n"
//   - Error string:  "-ERR message\r\n"
//   - Integer:       ":42\r\n"
//   - Bulk string:   "$5\r\nhello\r\n" ("$-1\r\n" is the null bulk string)
//   - Array:         "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n"
//
// Decoding is restartable: DecodeNext inspects the bytes received so far
// and either returns one frame with the number of bytes it consumed, or
// ErrIncomplete when more bytes are needed. Any other error means the
// stream can not be resynchronized and the connection must be dropped.
//
// Usage:
//
//	f, n, err := resp.DecodeNext(buf)
//	switch {
//	case errors.Is(err, resp.ErrIncomplete):
//		// read more into buf and retry
//	case err != nil:
//		// protocol violation, close the connection
//	default:
//		buf = buf[n:]
//	}
package resp
