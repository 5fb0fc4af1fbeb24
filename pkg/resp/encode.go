package resp

import (
	"strconv"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Encode returns the canonical wire bytes of f.
func Encode(f Frame) []byte {
	return AppendFrame(nil, f)
}

// AppendFrame appends the wire encoding of f to dst and returns the extended slice.
//
// CR and LF inside simple and error strings are written as spaces so the
// output always reparses. A frame with an unknown Kind is written as null.
func AppendFrame(dst []byte, f Frame) []byte {
	switch f.Kind {
	case KindSimple, KindError:
		dst = append(dst, byte(f.Kind))
		dst = append(dst, sanitizeLine(f.Str)...)
		return append(dst, '\r', '\n')
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, f.Int, 10)
		return append(dst, '\r', '\n')
	case KindBulk:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(f.Bulk)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, f.Bulk...)
		return append(dst, '\r', '\n')
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(f.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range f.Array {
			dst = AppendFrame(dst, e)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

func sanitizeLine(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return lineBreaks.Replace(s)
	}
	return s
}
