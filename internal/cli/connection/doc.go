// Package connection provides the minikv client used by minikv-cli.
//
// Client speaks the tagged frame protocol over TCP or TLS:
//
//	c, err := connection.Dial(ctx, "127.0.0.1:6380", connection.Options{})
//	if err != nil { ... }
//	defer c.Close()
//	_ = c.Set(ctx, []byte("k"), []byte("v"))
//	v, ok, err := c.Get(ctx, []byte("k"))
//
// AdminClient queries the admin HTTP endpoints (/health, /ready).
// Manager tracks the active connection of an interactive session.
package connection
