package domain

import "context"

// WebinarRepository is the storage port used by the seat use cases.
//
// FindByID returns (nil, nil) when no webinar has the given id; a non-nil
// error always means the backing store failed. Update overwrites the stored
// webinar keyed by its ID and must be safe to repeat with the same state.
type WebinarRepository interface {
	FindByID(ctx context.Context, id string) (*Webinar, error)
	Update(ctx context.Context, webinar *Webinar) error
}
