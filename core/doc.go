// Package core provides the foundational types and capability interfaces
// shared by every actormesh agent. It defines:
//
//   - Lifecycle / Actor (the uniform {id, name, send, terminate, abort} contract)
//   - ExitStatus (how an agent's worker stopped)
//   - Agent identifier helpers backed by github.com/google/uuid
//
// The package keeps implementation concerns (mailboxes, workers, concrete
// agents) out of scope so that the engine and façade can manage agents of
// different message types through small interfaces.
package core
