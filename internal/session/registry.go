package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grillz/web/internal/domain"
	"github.com/grillz/web/internal/view"
)

// CookieName identifies a browser's view instance.
const CookieName = "grillz_session"

// Factory builds the view for a new session.
type Factory func() *view.View

// Registry maps session ids to their view instances. Each browser gets its
// own in-flight flag and result, which live only in memory.
type Registry struct {
	newView Factory
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	// OnChange, when set, receives the number of live views after every
	// create or removal.
	OnChange func(active int)
}

type entry struct {
	view     *view.View
	lastSeen time.Time
}

func NewRegistry(newView Factory) *Registry {
	return &Registry{
		newView: newView,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Acquire returns the view for id, creating a fresh session when id is
// empty or unknown. The returned id is the one the caller should hand back
// to the browser.
func (r *Registry) Acquire(id string) (string, *view.View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return id, e.view
	}

	id = uuid.New().String()
	r.entries[id] = &entry{view: r.newView(), lastSeen: r.now()}
	r.changedLocked()
	return id, r.entries[id].view
}

// Lookup returns the view for an existing session without creating one.
func (r *Registry) Lookup(id string) (*view.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrSessionUnknown
	}
	e.lastSeen = r.now()
	return e.view, nil
}

// Touch marks a session as active, e.g. while a websocket is open.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
	}
}

// Sweep closes and forgets every view idle for longer than ttl.
// Returns the number of sessions removed.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	var expired []*view.View
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > ttl {
			expired = append(expired, e.view)
			delete(r.entries, id)
		}
	}
	if len(expired) > 0 {
		r.changedLocked()
	}
	r.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	return len(expired)
}

// CloseAll tears down every view and waits for their pings to return.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := make([]*view.View, 0, len(r.entries))
	for id, e := range r.entries {
		views = append(views, e.view)
		delete(r.entries, id)
	}
	r.changedLocked()
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	for _, v := range views {
		v.Wait()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) changedLocked() {
	if r.OnChange != nil {
		r.OnChange(len(r.entries))
	}
}
