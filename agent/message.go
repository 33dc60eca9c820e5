package agent

import "github.com/hupe1980/actormesh/actor"

// Message is one conversational turn. ReplyTo is where the receiver sends its
// answer; a zero ReplyTo means the sender does not expect a reply and any
// attempt to answer fails with a delivery error.
type Message struct {
	ReplyTo actor.Sender[Message]
	Content string
}

// String returns the content; the reply handle is not printable.
func (m Message) String() string { return m.Content }
