package actor

import (
	"context"

	"github.com/google/uuid"
	"github.com/hupe1980/actormesh/logging"
)

// Builder accumulates optional agent configuration before spawning.
// Example:
//
//	a := actor.NewBuilder[string]().WithName("echo").Handler(handle)
//
// Building never fails once a handler is supplied.
type Builder[M any] struct {
	id     uuid.UUID
	name   string
	optFns []func(o *Options)
}

// NewBuilder creates an empty builder; the id is generated at spawn time
// unless WithID is used.
func NewBuilder[M any]() *Builder[M] { return &Builder[M]{} }

// WithID sets the agent id (chainable).
func (b *Builder[M]) WithID(id uuid.UUID) *Builder[M] { b.id = id; return b }

// WithName sets the agent display name (chainable).
func (b *Builder[M]) WithName(name string) *Builder[M] { b.name = name; return b }

// WithLogger sets the agent logger (chainable).
func (b *Builder[M]) WithLogger(l logging.Logger) *Builder[M] {
	b.optFns = append(b.optFns, func(o *Options) { o.Logger = l })
	return b
}

// WithContext sets the parent context of the worker (chainable).
func (b *Builder[M]) WithContext(ctx context.Context) *Builder[M] {
	b.optFns = append(b.optFns, func(o *Options) { o.Context = ctx })
	return b
}

// Handler spawns the agent with a plain handler.
func (b *Builder[M]) Handler(h Handler[M]) *Agent[M] {
	return Spawn(b.id, b.name, h, b.optFns...)
}

// SelfHandler spawns the agent with a reply-capable handler.
func (b *Builder[M]) SelfHandler(h SelfHandler[M]) *Agent[M] {
	return SpawnWithSelf(b.id, b.name, h, b.optFns...)
}
