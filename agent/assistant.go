package agent

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/actor"
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
	"github.com/hupe1980/actormesh/model"
)

// EmptyInputReply is sent back instead of calling the model when a message
// has no content.
const EmptyInputReply = "Please type a message."

// AssistantOptions configures an Assistant.
type AssistantOptions struct {
	ID   uuid.UUID
	Name string

	// Model produces the replies. When nil the assistant echoes every message.
	Model model.Model
	// Instructions is sent as the system prompt on every model call.
	Instructions string
	// MaxHistoryMessages bounds the history kept between messages; the
	// oldest user/assistant pairs are dropped first. Zero keeps everything.
	MaxHistoryMessages int
	// MaxModelCalls fails the handler once the model has been called this
	// many times. Zero means unlimited.
	MaxModelCalls int
	// StreamTo, when set, makes model calls stream and receives every partial
	// chunk as it arrives. The reply message still carries the full text.
	StreamTo io.Writer

	Logger  logging.Logger
	Context context.Context
}

// Assistant answers every Message it receives by sending a reply to the
// message's ReplyTo. The conversation history is owned by the worker
// goroutine and grows by one user and one assistant turn per message.
type Assistant struct {
	*actor.Agent[Message]

	name         string
	model        model.Model
	instructions string
	logger       logging.Logger
	maxHistory   int
	limiter      *callLimiter
	streamTo     io.Writer

	history []model.Message
}

var _ core.Actor[Message] = (*Assistant)(nil)

// NewAssistant spawns an Assistant.
func NewAssistant(optFns ...func(o *AssistantOptions)) *Assistant {
	opts := AssistantOptions{
		MaxHistoryMessages: 20,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Assistant{
		name:         opts.Name,
		model:        opts.Model,
		instructions: opts.Instructions,
		logger:       logging.OrNoOp(opts.Logger),
		maxHistory:   opts.MaxHistoryMessages,
		limiter:      newCallLimiter(opts.MaxModelCalls),
		streamTo:     opts.StreamTo,
	}
	a.Agent = actor.SpawnWithSelf(opts.ID, opts.Name, a.handle, func(o *actor.Options) {
		o.Logger = opts.Logger
		o.Context = opts.Context
	})
	return a
}

func (a *Assistant) handle(ctx context.Context, self actor.Sender[Message], msg Message) error {
	// Providers reject empty turns, so blank input never reaches the model or the history.
	if a.model != nil && strings.TrimSpace(msg.Content) == "" {
		a.logger.Debug("received empty message; asking again", "agent_name", a.name)
		return a.reply(msg, self, EmptyInputReply)
	}

	a.history = append(a.history, model.Message{Role: model.RoleUser, Text: msg.Content})

	reply, err := a.complete(ctx, msg.Content)
	if err != nil {
		return fmt.Errorf("assistant completion failed: %w", err)
	}

	a.history = append(a.history, model.Message{Role: model.RoleAssistant, Text: reply})
	a.trimHistory()

	return a.reply(msg, self, reply)
}

func (a *Assistant) reply(msg Message, self actor.Sender[Message], content string) error {
	if err := msg.ReplyTo.Send(Message{ReplyTo: self, Content: content}); err != nil {
		return fmt.Errorf("unable to send message: %w", err)
	}
	return nil
}

func (a *Assistant) complete(ctx context.Context, content string) (string, error) {
	if a.model == nil {
		a.logger.Debug("received message; echoing it back", "agent_name", a.name, "message", content)
		return content, nil
	}

	if err := a.limiter.take(); err != nil {
		return "", err
	}

	req := model.Request{
		Instructions: a.instructions,
		Messages:     append([]model.Message(nil), a.history...),
	}

	info := a.model.Info()
	start := time.Now()
	var (
		resp model.Response
		err  error
	)
	if a.streamTo != nil {
		resp, err = model.CompleteStream(ctx, a.model, req, func(r model.Response) {
			_, _ = io.WriteString(a.streamTo, r.Text)
		})
		if err == nil {
			_, _ = io.WriteString(a.streamTo, "\n")
		}
	} else {
		resp, err = model.Complete(ctx, a.model, req)
	}
	if err != nil {
		a.logger.Error("model call failed", "agent_name", a.name, "provider", info.Provider, "model", info.Name, "duration", time.Since(start), "error", err)
		return "", err
	}

	args := []any{"agent_name", a.name, "provider", info.Provider, "model", info.Name, "duration", time.Since(start), "calls_remaining", a.limiter.remaining()}
	if resp.Usage != nil {
		args = append(args, "token_count", resp.Usage.TotalTokens)
	}
	a.logger.Debug("model call completed", args...)

	return resp.Text, nil
}

// trimHistory keeps the newest whole user/assistant pairs that fit in
// maxHistory, so the history always starts with a user turn.
func (a *Assistant) trimHistory() {
	if a.maxHistory <= 0 || len(a.history) <= a.maxHistory {
		return
	}
	keep := a.maxHistory &^ 1
	a.history = append(a.history[:0], a.history[len(a.history)-keep:]...)
}

// AssistantBuilder accumulates Assistant options.
type AssistantBuilder struct {
	optFns []func(o *AssistantOptions)
}

// NewAssistantBuilder creates a builder for an echoing assistant.
func NewAssistantBuilder() *AssistantBuilder { return &AssistantBuilder{} }

// WithID sets the agent id (chainable).
func (b *AssistantBuilder) WithID(id uuid.UUID) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.ID = id })
	return b
}

// WithName sets the agent name (chainable).
func (b *AssistantBuilder) WithName(name string) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.Name = name })
	return b
}

// WithModel makes the assistant answer through m (chainable).
func (b *AssistantBuilder) WithModel(m model.Model) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.Model = m })
	return b
}

// WithInstructions sets the system prompt (chainable).
func (b *AssistantBuilder) WithInstructions(instructions string) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.Instructions = instructions })
	return b
}

// WithMaxHistoryMessages bounds the kept history (chainable).
func (b *AssistantBuilder) WithMaxHistoryMessages(n int) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.MaxHistoryMessages = n })
	return b
}

// WithMaxModelCalls limits the number of model calls (chainable).
func (b *AssistantBuilder) WithMaxModelCalls(n int) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.MaxModelCalls = n })
	return b
}

// WithStreamTo streams model output to w while it is generated (chainable).
func (b *AssistantBuilder) WithStreamTo(w io.Writer) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.StreamTo = w })
	return b
}

// WithLogger sets the logger (chainable).
func (b *AssistantBuilder) WithLogger(l logging.Logger) *AssistantBuilder {
	b.optFns = append(b.optFns, func(o *AssistantOptions) { o.Logger = l })
	return b
}

// Build spawns the Assistant.
func (b *AssistantBuilder) Build() *Assistant { return NewAssistant(b.optFns...) }
