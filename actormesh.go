// Package actormesh provides a high-level façade over the actor runtime and
// the specialized agents, wiring a user/assistant conversation in a few
// lines. Most applications interact with this package by:
//  1. Creating a Mesh via New() (optionally supplying a model, IO and logger)
//  2. Starting a conversation with Converse
//  3. Stopping every agent with Shutdown
//
// The façade delegates lifecycle management to engine.Engine and exposes an
// actor.Directory so additional agents can look up the built-in ones. All
// defaults are safe for local development: the assistant echoes and the
// user agent talks to stdin/stdout.
package actormesh

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/actor"
	"github.com/hupe1980/actormesh/agent"
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/engine"
	"github.com/hupe1980/actormesh/logging"
	"github.com/hupe1980/actormesh/model"
)

// Options configures the Mesh instance.
type Options struct {
	// Model answers on behalf of the assistant; nil makes it echo.
	Model model.Model
	// Instructions is the assistant's system prompt.
	Instructions string
	// StreamTo, when set, receives the model output while it is generated.
	StreamTo io.Writer

	// Input and Output are the user's terminal (defaults: os.Stdin, os.Stdout).
	Input  io.Reader
	Output io.Writer

	UserName      string
	AssistantName string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the high-level façade aggregating a user agent, an assistant and
// the engine that owns both.
type Mesh struct {
	opts      Options
	engine    *engine.Engine
	directory *actor.Directory[agent.Message]
	user      *agent.UserAgent
	assistant *agent.Assistant
}

// New spawns the user agent and the assistant and registers both.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		Input:         os.Stdin,
		Output:        os.Stdout,
		UserName:      "user",
		AssistantName: "assistant",
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	user := agent.NewUserAgent(func(o *agent.UserAgentOptions) {
		o.Name = opts.UserName
		o.Input = opts.Input
		o.Output = opts.Output
		o.Logger = opts.Logger
	})
	assistant := agent.NewAssistant(func(o *agent.AssistantOptions) {
		o.Name = opts.AssistantName
		o.Model = opts.Model
		o.Instructions = opts.Instructions
		o.StreamTo = opts.StreamTo
		o.Logger = opts.Logger
	})

	m := &Mesh{
		opts:      opts,
		engine:    engine.New(func(o *engine.Options) { o.Logger = opts.Logger }),
		directory: actor.NewDirectory[agent.Message](),
		user:      user,
		assistant: assistant,
	}

	// Freshly spawned agents have distinct generated ids, so registration cannot collide.
	for _, a := range []*actor.Agent[agent.Message]{user.Agent, assistant.Agent} {
		_ = m.engine.Register(a)
		_ = m.directory.Add(a)
	}

	return m
}

// User returns the user agent.
func (m *Mesh) User() *agent.UserAgent { return m.user }

// Assistant returns the assistant agent.
func (m *Mesh) Assistant() *agent.Assistant { return m.assistant }

// Directory returns the directory holding both built-in agents.
func (m *Mesh) Directory() *actor.Directory[agent.Message] { return m.directory }

// Engine returns the engine owning the built-in agents; register additional
// agents there to have Shutdown stop them too.
func (m *Mesh) Engine() *engine.Engine { return m.engine }

// Converse prompts the user with opening on behalf of the assistant and
// blocks until the user ends the conversation, one of the agents stops, or
// ctx is done.
func (m *Mesh) Converse(ctx context.Context, opening string) error {
	err := m.user.Send(agent.Message{ReplyTo: m.assistant.Sender(), Content: opening})
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}

	select {
	case <-m.user.Finished():
		return nil
	case <-m.user.Done():
		return m.stoppedErr(ctx, m.opts.UserName, m.user.Agent)
	case <-m.assistant.Done():
		return m.stoppedErr(ctx, m.opts.AssistantName, m.assistant.Agent)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown terminates every agent registered with the engine.
func (m *Mesh) Shutdown(ctx context.Context) map[uuid.UUID]core.ExitStatus {
	return m.engine.Shutdown(ctx)
}

func (m *Mesh) stoppedErr(ctx context.Context, name string, a *actor.Agent[agent.Message]) error {
	status, err := a.Wait(ctx)
	if err != nil {
		return err
	}
	if status.Err != nil {
		return fmt.Errorf("%s stopped: %w", name, status.Err)
	}
	return fmt.Errorf("%s stopped: %s", name, status)
}
