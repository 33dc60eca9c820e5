package actor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Entry is one Directory record.
type Entry[M any] struct {
	ID     uuid.UUID
	Name   string
	Sender Sender[M]
}

// Directory maps agent ids to Senders for code that needs cross-agent
// lookup. It is an ordinary value passed to whoever needs it; there is no
// process-wide registry. Safe for concurrent use.
type Directory[M any] struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry[M]
	order   []uuid.UUID
}

// NewDirectory constructs an empty directory.
func NewDirectory[M any]() *Directory[M] {
	return &Directory[M]{entries: make(map[uuid.UUID]Entry[M])}
}

// Register records sender under id. Registering an id twice fails with
// ErrAlreadyRegistered.
func (d *Directory[M]) Register(id uuid.UUID, name string, sender Sender[M]) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[id]; ok {
		return fmt.Errorf("register %s: %w", id, ErrAlreadyRegistered)
	}
	d.entries[id] = Entry[M]{ID: id, Name: name, Sender: sender}
	d.order = append(d.order, id)
	return nil
}

// Add registers a running agent under its own id and name.
func (d *Directory[M]) Add(a *Agent[M]) error {
	return d.Register(a.ID(), a.Name(), a.Sender())
}

// Lookup returns the entry registered under id.
func (d *Directory[M]) Lookup(id uuid.UUID) (Entry[M], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[id]
	return e, ok
}

// LookupName returns the earliest registered entry with the given name.
// Names are not unique.
func (d *Directory[M]) LookupName(name string) (Entry[M], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range d.order {
		if e := d.entries[id]; e.Name == name {
			return e, true
		}
	}
	return Entry[M]{}, false
}

// Send delivers msg to the agent registered under id.
func (d *Directory[M]) Send(id uuid.UUID, msg M) error {
	e, ok := d.Lookup(id)
	if !ok {
		return fmt.Errorf("send to %s: %w", id, ErrNotFound)
	}
	return e.Sender.Send(msg)
}

// Remove deletes the entry for id and reports whether it existed.
func (d *Directory[M]) Remove(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[id]; !ok {
		return false
	}
	delete(d.entries, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the registered ids in registration order.
func (d *Directory[M]) IDs() []uuid.UUID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]uuid.UUID, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of registered entries.
func (d *Directory[M]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
