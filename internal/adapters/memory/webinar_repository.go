package memory

import (
	"context"
	"sync"

	"github.com/robertarktes/webinar-seats/internal/domain"
)

// WebinarRepository keeps webinar snapshots keyed by ID. Values are copied on
// the way in and out, so the store only changes through Update.
type WebinarRepository struct {
	mu       sync.RWMutex
	webinars map[string]domain.Webinar
	updates  int
}

func NewWebinarRepository(webinars ...domain.Webinar) *WebinarRepository {
	r := &WebinarRepository{webinars: make(map[string]domain.Webinar, len(webinars))}
	for _, w := range webinars {
		r.webinars[w.ID] = w
	}
	return r
}

func (r *WebinarRepository) FindByID(ctx context.Context, id string) (*domain.Webinar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, ok := r.Get(id)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WebinarRepository) Update(ctx context.Context, webinar *domain.Webinar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webinars[webinar.ID] = *webinar
	r.updates++
	return nil
}

// Get is the context-free read used by tests to inspect stored state.
func (r *WebinarRepository) Get(id string) (domain.Webinar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.webinars[id]
	return w, ok
}

// Updates returns how many times Update has been called.
func (r *WebinarRepository) Updates() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updates
}
