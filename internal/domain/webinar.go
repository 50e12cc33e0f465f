package domain

import "time"

const (
	MinSeats = 1
	MaxSeats = 1000
)

type Webinar struct {
	ID          string
	OrganizerID string
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Seats       int
}

// IsOrganizer reports whether user owns the webinar.
func (w *Webinar) IsOrganizer(user User) bool {
	return w.OrganizerID == user.ID
}

// ChangeSeats sets the capacity after checking it stays within [MinSeats, MaxSeats].
// Whether the new count is lower than the current one is decided by the caller.
func (w *Webinar) ChangeSeats(seats int) error {
	if seats > MaxSeats {
		return ErrTooManySeats
	}
	if seats < MinSeats {
		return ErrNotEnoughSeats
	}
	w.Seats = seats
	return nil
}
