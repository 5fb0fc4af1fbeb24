// Package domain defines the error model shared by the command layer and
// the network server.
//
// Every client-visible failure is a *DomainError with a stable code.
// The server writes it on the wire as "ERR <code> <message>", so clients
// can branch on the code without parsing the free-form message.
package domain
