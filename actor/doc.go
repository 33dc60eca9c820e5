// Package actor implements the actormesh runtime: agents that own a private,
// ordered, unbounded mailbox and process messages one at a time on their own
// goroutine.
//
// The package is organised around four pieces:
//
//  1. Mailbox – unexported multi-producer / single-consumer FIFO
//  2. Sender – copyable handle that enqueues into one mailbox
//  3. Agent – the running worker plus its identity (id, name)
//  4. Builder – optional id/name/logger configuration before spawning
//
// Execution model:
//   - Spawn starts exactly one worker goroutine per agent and returns immediately
//   - The worker hands each message to the handler and waits for it to return
//     before dequeuing the next one; independent agents run concurrently
//   - Send never blocks; it fails with a *SendError carrying the message back
//     once the mailbox no longer accepts messages
//   - A handler error (or panic) is fatal to the agent: the worker stops and
//     the remaining queued messages are dropped
//
// Shutdown:
//   - Terminate closes the mailbox, waits up to the grace period
//     (AGENT_GRACE_PERIOD_SECONDS, default 3s) for the worker to drain, then
//     cancels it
//   - Abort cancels the worker immediately and discards the queue
//
// Agents never share memory: cross-agent communication happens exclusively by
// sending messages, typically by embedding a Sender in the message so the
// receiver can reply.
package actor
