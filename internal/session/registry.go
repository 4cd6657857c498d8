package session

import (
	"context"
	"sync"
	"time"

	"github.com/metinatakli/seating-session/internal/domain"
)

// Handle bundles what a live session needs: its store, the controller that
// talks to the external services and the queue its chart commands go to.
type Handle struct {
	Store      *Store
	Controller *Controller
	Commands   *CommandQueue
}

// Registry owns the sessions of all connected buyers, keyed by the HTTP
// session token. A session is created on first use and closed when
// discarded.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*registryEntry
	currency string
	deps     Dependencies
	opts     []Option
	now      func() time.Time
}

type registryEntry struct {
	handle   *Handle
	lastSeen time.Time
}

func NewRegistry(currency string, deps Dependencies, opts ...Option) *Registry {
	return &Registry{
		entries:  make(map[string]*registryEntry),
		currency: currency,
		deps:     deps,
		opts:     opts,
		now:      time.Now,
	}
}

func (r *Registry) Open(key string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		commands := NewCommandQueue()
		store := NewStore(r.currency, r.opts...)
		store.SetChartInstance(commands)

		entry = &registryEntry{handle: &Handle{
			Store:      store,
			Controller: NewController(store, r.deps),
			Commands:   commands,
		}}
		r.entries[key] = entry
	}

	entry.lastSeen = r.now()

	return entry.handle
}

func (r *Registry) Get(key string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	entry.lastSeen = r.now()

	return entry.handle, nil
}

// Discard releases the session's hold and closes it.
func (r *Registry) Discard(ctx context.Context, key string) {
	r.mu.Lock()
	entry, ok := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()

	if ok {
		entry.close(ctx)
	}
}

// Prune discards every session idle for longer than idle and reports how
// many were removed.
func (r *Registry) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var expired []*registryEntry
	for key, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	for _, entry := range expired {
		entry.close(ctx)
	}

	return len(expired)
}

// close gives up the seats held by the session before tearing it down, so
// other buyers do not wait for the hold to expire.
func (e *registryEntry) close(ctx context.Context) {
	_ = e.handle.Controller.ReleaseHold(ctx)
	e.handle.Store.Close()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
