package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/actor"
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
)

// DefaultUserPrompt prefixes every prompt printed by a UserAgent.
const DefaultUserPrompt = ">>> "

// UserAgentOptions configures a UserAgent.
type UserAgentOptions struct {
	ID   uuid.UUID
	Name string

	// Input is read one line per message. Defaults to os.Stdin.
	Input io.Reader
	// Output receives the prompts. Defaults to os.Stdout.
	Output io.Writer
	// Prompt prefixes every printed message. Defaults to DefaultUserPrompt.
	Prompt string
	// ExitCommands end the conversation instead of being sent as replies.
	// Compared case-insensitively after trimming. Defaults to "exit", "quit".
	ExitCommands []string

	Logger  logging.Logger
	Context context.Context
}

// UserAgent is a proxy for the human at the terminal. Every message it
// receives is printed as a prompt; the next input line is sent back to the
// message's ReplyTo. End of input or an exit command finishes the
// conversation without replying.
type UserAgent struct {
	*actor.Agent[Message]

	name   string
	reader *bufio.Reader
	output io.Writer
	prompt string
	exits  map[string]struct{}
	logger logging.Logger

	finished   chan struct{}
	finishOnce sync.Once
}

var _ core.Actor[Message] = (*UserAgent)(nil)

type lineResult struct {
	line string
	err  error
}

// NewUserAgent spawns a UserAgent.
func NewUserAgent(optFns ...func(o *UserAgentOptions)) *UserAgent {
	opts := UserAgentOptions{
		Input:        os.Stdin,
		Output:       os.Stdout,
		Prompt:       DefaultUserPrompt,
		ExitCommands: []string{"exit", "quit"},
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	u := &UserAgent{
		name:     opts.Name,
		reader:   bufio.NewReader(opts.Input),
		output:   opts.Output,
		prompt:   opts.Prompt,
		exits:    make(map[string]struct{}, len(opts.ExitCommands)),
		logger:   logging.OrNoOp(opts.Logger),
		finished: make(chan struct{}),
	}
	for _, c := range opts.ExitCommands {
		u.exits[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	u.Agent = actor.SpawnWithSelf(opts.ID, opts.Name, u.handle, func(o *actor.Options) {
		o.Logger = opts.Logger
		o.Context = opts.Context
	})
	return u
}

// Finished is closed once the user ended the conversation.
func (u *UserAgent) Finished() <-chan struct{} { return u.finished }

func (u *UserAgent) handle(ctx context.Context, self actor.Sender[Message], msg Message) error {
	if _, err := fmt.Fprintf(u.output, "%s%s\n", u.prompt, msg.Content); err != nil {
		return fmt.Errorf("failed to print prompt: %w", err)
	}

	line, err := u.readLine(ctx)
	switch {
	case errors.Is(err, io.EOF) && line == "":
		u.finish("end of input")
		return nil
	case err != nil && !errors.Is(err, io.EOF):
		return fmt.Errorf("failed to read user input: %w", err)
	}

	input := strings.TrimRight(line, "\r\n")
	if _, ok := u.exits[strings.ToLower(strings.TrimSpace(input))]; ok {
		u.finish("exit command")
		return nil
	}

	if err := msg.ReplyTo.Send(Message{ReplyTo: self, Content: input}); err != nil {
		return fmt.Errorf("unable to reply to message: %w", err)
	}
	return nil
}

// readLine reads in a separate goroutine so that cancellation is not blocked
// by a terminal read.
func (u *UserAgent) readLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := u.reader.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (u *UserAgent) finish(reason string) {
	u.finishOnce.Do(func() {
		u.logger.Info("user ended the conversation", "agent_name", u.name, "reason", reason)
		close(u.finished)
	})
}

// UserAgentBuilder accumulates UserAgent options.
type UserAgentBuilder struct {
	optFns []func(o *UserAgentOptions)
}

// NewUserAgentBuilder creates a builder with default options.
func NewUserAgentBuilder() *UserAgentBuilder { return &UserAgentBuilder{} }

// WithID sets the agent id (chainable).
func (b *UserAgentBuilder) WithID(id uuid.UUID) *UserAgentBuilder {
	b.optFns = append(b.optFns, func(o *UserAgentOptions) { o.ID = id })
	return b
}

// WithName sets the agent name (chainable).
func (b *UserAgentBuilder) WithName(name string) *UserAgentBuilder {
	b.optFns = append(b.optFns, func(o *UserAgentOptions) { o.Name = name })
	return b
}

// WithIO sets the input reader and prompt writer (chainable).
func (b *UserAgentBuilder) WithIO(in io.Reader, out io.Writer) *UserAgentBuilder {
	b.optFns = append(b.optFns, func(o *UserAgentOptions) {
		o.Input = in
		o.Output = out
	})
	return b
}

// WithLogger sets the logger (chainable).
func (b *UserAgentBuilder) WithLogger(l logging.Logger) *UserAgentBuilder {
	b.optFns = append(b.optFns, func(o *UserAgentOptions) { o.Logger = l })
	return b
}

// Build spawns the UserAgent.
func (b *UserAgentBuilder) Build() *UserAgent { return NewUserAgent(b.optFns...) }
