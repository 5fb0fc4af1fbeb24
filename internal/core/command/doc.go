// Package command classifies decoded request frames into typed commands.
//
// The set of commands is closed: Get, Set, Ping and Unsupported. Callers
// dispatch with an exhaustive type switch:
//
//	switch cmd := command.Parse(frame).(type) {
//	case command.Get:
//	case command.Set:
//	case command.Ping:
//	case command.Unsupported:
//		// reply with cmd.Err
//	}
//
// Parsing never fails; malformed requests become Unsupported carrying a
// *domain.DomainError that describes the problem.
package command
