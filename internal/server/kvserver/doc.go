// Package kvserver serves the minikv keyspace over TCP.
//
// Clients send requests as arrays of bulk strings in the tagged wire format
// implemented by pkg/resp. Supported commands:
//   - GET key
//   - SET key value
//   - PING [message]
//
// Every accepted connection runs in its own goroutine and processes frames
// strictly in arrival order: a reply is written and flushed before the next
// frame is decoded. Malformed frames close the connection without a reply;
// command errors are answered with an error string and the connection stays
// open.
package kvserver
