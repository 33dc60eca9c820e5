// Package engine implements the lifecycle layer for actormesh agents.
//
// The Engine is a registry of running agents of any message type, held
// through the core.Lifecycle capability set ({id, name, terminate, abort}).
// It does not route messages: delivery stays between Senders and mailboxes.
//
// # Core Responsibilities
//
// Agent Management:
//   - Thread-safe registry keyed by agent id, with name lookup
//   - Explicit registration; no agent registers itself
//
// Shutdown Coordination:
//   - Shutdown terminates every registered agent concurrently, each with its
//     own grace period, and reports one core.ExitStatus per agent
//   - AbortAll cancels every registered agent without waiting
//   - An optional OnStop hook observes every terminated agent
//
// # Usage Patterns
//
//	eng := engine.New(func(o *engine.Options) { o.Logger = logger })
//	_ = eng.Register(user)
//	_ = eng.Register(assistant)
//	...
//	for id, status := range eng.Shutdown(ctx) {
//	    if !status.Clean() {
//	        log.Printf("%s: %s", id, status)
//	    }
//	}
//
// # Concurrency Model
//
//   - Registration, lookup and shutdown are safe for concurrent use
//   - Shutdown detaches the registry before terminating, so agents registered
//     while a shutdown is running belong to the next Shutdown call
package engine
