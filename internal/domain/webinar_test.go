package domain_test

import (
	"testing"

	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestWebinar_ChangeSeats(t *testing.T) {
	tests := []struct {
		name    string
		seats   int
		wantErr error
		want    int
	}{
		{name: "within bounds", seats: 200, want: 200},
		{name: "upper bound", seats: domain.MaxSeats, want: domain.MaxSeats},
		{name: "lower bound", seats: domain.MinSeats, want: domain.MinSeats},
		{name: "above upper bound", seats: 1500, wantErr: domain.ErrTooManySeats, want: 100},
		{name: "zero", seats: 0, wantErr: domain.ErrNotEnoughSeats, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := domain.Webinar{ID: "webinar-id", OrganizerID: "alice", Seats: 100}

			err := w.ChangeSeats(tc.seats)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, w.Seats)
		})
	}
}

func TestWebinar_IsOrganizer(t *testing.T) {
	w := domain.Webinar{ID: "webinar-id", OrganizerID: "alice"}

	require.True(t, w.IsOrganizer(domain.User{ID: "alice"}))
	require.False(t, w.IsOrganizer(domain.User{ID: "bob"}))
}
