package liveviewer

import (
	"context"
	"errors"
	"sort"
	"sync"

	"edadash/domain/core"
)

// Registry tracks running viewers so the process can stop them on shutdown.
// Viewers are never deduplicated: each launch adds a new entry.
type Registry struct {
	mu      sync.RWMutex
	viewers map[core.ID]*Viewer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{viewers: make(map[core.ID]*Viewer)}
}

func (r *Registry) add(v *Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewers[v.ID] = v
}

// Get returns a running viewer by artifact ID
func (r *Registry) Get(id core.ID) (*Viewer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.viewers[id]
	return v, ok
}

// List returns running viewers ordered by start time
func (r *Registry) List() []*Viewer {
	r.mu.RLock()
	out := make([]*Viewer, 0, len(r.viewers))
	for _, v := range r.viewers {
		out = append(out, v)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Len returns the number of registered viewers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}

// Stop shuts one viewer down and forgets it
func (r *Registry) Stop(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	v, ok := r.viewers[id]
	delete(r.viewers, id)
	r.mu.Unlock()

	if !ok {
		return core.NewNotFoundError("viewer", id.String())
	}
	return v.Shutdown(ctx)
}

// CloseAll shuts every viewer down and empties the registry
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	viewers := r.viewers
	r.viewers = make(map[core.ID]*Viewer)
	r.mu.Unlock()

	var errs []error
	for _, v := range viewers {
		if err := v.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
