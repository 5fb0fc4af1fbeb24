package resp

import "strconv"

// Kind identifies the type of a Frame. For wire types the value is the tag byte.
type Kind byte

const (
	KindSimple  Kind = '+'
	KindError   Kind = '-'
	KindInteger Kind = ':'
	KindBulk    Kind = '$'
	KindArray   Kind = '*'
	// KindNull has no tag of its own; it is written as a null bulk string.
	KindNull Kind = '_'
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Frame is one self-delimited unit of the wire protocol.
//
// Only the field matching Kind is meaningful: Str for Simple and Error,
// Int for Integer, Bulk for Bulk, Array for Array.
type Frame struct {
	Kind  Kind
	Str   string
	Int   int64
	Bulk  []byte
	Array []Frame
}

// Simple returns a simple string frame.
func Simple(s string) Frame {
	return Frame{Kind: KindSimple, Str: s}
}

// Error returns an error string frame.
func Error(s string) Frame {
	return Frame{Kind: KindError, Str: s}
}

// Integer returns an integer frame.
func Integer(n int64) Frame {
	return Frame{Kind: KindInteger, Int: n}
}

// Bulk returns a bulk string frame. A nil slice yields a Null frame.
func Bulk(b []byte) Frame {
	if b == nil {
		return Null()
	}
	return Frame{Kind: KindBulk, Bulk: b}
}

// BulkString returns a bulk string frame holding s.
func BulkString(s string) Frame {
	return Frame{Kind: KindBulk, Bulk: []byte(s)}
}

// Null returns the null marker.
func Null() Frame {
	return Frame{Kind: KindNull}
}

// Array returns an array frame of the given elements.
func Array(elems ...Frame) Frame {
	if elems == nil {
		elems = []Frame{}
	}
	return Frame{Kind: KindArray, Array: elems}
}

// Command builds a request frame: an array of bulk strings.
func Command(args ...[]byte) Frame {
	elems := make([]Frame, len(args))
	for i, a := range args {
		if a == nil {
			a = []byte{}
		}
		elems[i] = Frame{Kind: KindBulk, Bulk: a}
	}
	return Frame{Kind: KindArray, Array: elems}
}

// IsNull reports whether f is the null marker.
func (f Frame) IsNull() bool {
	return f.Kind == KindNull
}

// Text returns the textual payload of Simple, Error and Bulk frames.
func (f Frame) Text() (string, bool) {
	switch f.Kind {
	case KindSimple, KindError:
		return f.Str, true
	case KindBulk:
		return string(f.Bulk), true
	default:
		return "", false
	}
}
