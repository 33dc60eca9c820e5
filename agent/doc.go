// Package agent contains the specialized agents built on the actor runtime:
//
//  1. UserAgent – prompts a human on an io.Writer and replies with the line
//     read from an io.Reader (stdin/stdout by default)
//  2. Assistant – answers every message, echoing by default or through a
//     model.Model when one is configured
//
// Both speak the conversational Message, which carries the Sender the
// receiver should reply to, so two agents can hold a conversation without a
// central directory. Both embed *actor.Agent[Message] and therefore satisfy
// core.Actor[Message].
//
// Collaborators (reader, writer, model, logger) are supplied at construction
// time through functional options or the builders; handlers never reach for
// package-level state.
package agent
