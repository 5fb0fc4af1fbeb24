package command

import "github.com/yndnr/minikv-go/pkg/resp"

// Command is a parsed request. The interface is sealed; only the types in
// this package implement it.
type Command interface {
	// Name returns the canonical upper-case command name.
	Name() string
	sealed()
}

// Get reads the value of Key.
type Get struct {
	Key []byte
}

// Set stores Value under Key, replacing any previous value.
type Set struct {
	Key   []byte
	Value []byte
}

// Ping checks liveness. A nil Message replies PONG, otherwise the message is echoed.
type Ping struct {
	Message []byte
}

// Unsupported is a request that could not be classified.
type Unsupported struct {
	Frame resp.Frame
	Err   error
}

func (Get) Name() string         { return "GET" }
func (Set) Name() string         { return "SET" }
func (Ping) Name() string        { return "PING" }
func (Unsupported) Name() string { return "UNSUPPORTED" }

func (Get) sealed()         {}
func (Set) sealed()         {}
func (Ping) sealed()        {}
func (Unsupported) sealed() {}
