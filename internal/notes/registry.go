package notes

import "sync"

// ViewRegistry hands out one View per session. Views are created lazily on
// first use and loaded from the service; logging out drops them.
type ViewRegistry struct {
	svc *Service

	mu    sync.Mutex
	views map[int64]*View
}

func NewViewRegistry(svc *Service) *ViewRegistry {
	return &ViewRegistry{
		svc:   svc,
		views: make(map[int64]*View),
	}
}

// ViewFor returns the session's view, creating and loading it on first use.
func (r *ViewRegistry) ViewFor(sessionID int64, userID string) *View {
	r.mu.Lock()
	v, ok := r.views[sessionID]
	if !ok {
		v = NewView(r.svc, userID)
		r.views[sessionID] = v
		r.mu.Unlock()
		v.Load()
		return v
	}
	r.mu.Unlock()
	return v
}

// Drop discards the session's view.
func (r *ViewRegistry) Drop(sessionID int64) {
	r.mu.Lock()
	delete(r.views, sessionID)
	r.mu.Unlock()
}
