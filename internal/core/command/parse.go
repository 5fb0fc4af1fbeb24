package command

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yndnr/minikv-go/internal/core/domain"
	"github.com/yndnr/minikv-go/pkg/resp"
)

// Parse classifies a request frame.
//
// Requests are arrays whose first element is the command name followed by
// its arguments. Names match case-insensitively. Bulk and simple strings
// are accepted as arguments.
func Parse(f resp.Frame) Command {
	if f.Kind != resp.KindArray {
		return unsupported(f, domain.ErrInvalidRequest.WithDetails("expected array, got "+f.Kind.String()))
	}
	if len(f.Array) == 0 {
		return unsupported(f, domain.ErrEmptyCommand)
	}

	args := make([][]byte, len(f.Array))
	for i, e := range f.Array {
		b, ok := argBytes(e)
		if !ok {
			return unsupported(f, domain.ErrInvalidRequest.WithDetails("argument "+strconv.Itoa(i)+" is "+e.Kind.String()))
		}
		args[i] = b
	}

	name := normalizeName(args[0])
	rest := args[1:]

	switch name {
	case "GET":
		if len(rest) != 1 {
			return unsupported(f, arityError(name))
		}
		return Get{Key: rest[0]}
	case "SET":
		if len(rest) != 2 {
			return unsupported(f, arityError(name))
		}
		return Set{Key: rest[0], Value: rest[1]}
	case "PING":
		switch len(rest) {
		case 0:
			return Ping{}
		case 1:
			return Ping{Message: rest[0]}
		default:
			return unsupported(f, arityError(name))
		}
	default:
		return unsupported(f, domain.ErrUnknownCommand.WithDetails("'"+truncate(string(args[0]), 64)+"'"))
	}
}

func unsupported(f resp.Frame, err error) Unsupported {
	return Unsupported{Frame: f, Err: err}
}

func arityError(name string) error {
	return domain.ErrWrongArity.WithDetails("'" + strings.ToLower(name) + "' command")
}

func argBytes(f resp.Frame) ([]byte, bool) {
	switch f.Kind {
	case resp.KindBulk:
		return f.Bulk, true
	case resp.KindSimple:
		return []byte(f.Str), true
	default:
		return nil, false
	}
}

// normalizeName upper-cases ASCII without allocating for already upper-case names.
func normalizeName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
