package kvserver

import (
	"errors"
	"fmt"

	"github.com/yndnr/minikv-go/internal/core/command"
	"github.com/yndnr/minikv-go/internal/core/domain"
	"github.com/yndnr/minikv-go/internal/storage"
	"github.com/yndnr/minikv-go/pkg/resp"
)

// execute applies cmd to kv and builds the reply frame.
func execute(kv storage.KV, cmd command.Command) resp.Frame {
	switch cmd := cmd.(type) {
	case command.Get:
		if v, ok := kv.Get(cmd.Key); ok {
			return resp.Bulk(v)
		}
		return resp.Null()

	case command.Set:
		kv.Set(cmd.Key, cmd.Value)
		return resp.Simple("OK")

	case command.Ping:
		if cmd.Message == nil {
			return resp.Simple("PONG")
		}
		return resp.Bulk(cmd.Message)

	case command.Unsupported:
		return errorReply(cmd.Err)

	default:
		return errorReply(domain.ErrInternal.WithDetails(fmt.Sprintf("unhandled command %T", cmd)))
	}
}

// errorReply renders err as an error frame.
func errorReply(err error) resp.Frame {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return resp.Error(formatError(de))
	}
	return resp.Error("ERR " + err.Error())
}

// formatError renders a domain error as "ERR <code> <message>[: <details>]".
func formatError(err *domain.DomainError) string {
	s := "ERR " + err.Code + " " + err.Message
	if err.Details != "" {
		s += ": " + err.Details
	}
	return s
}
