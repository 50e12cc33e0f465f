package domain_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, domain.KindNotFound, domain.KindOf(domain.ErrWebinarNotFound))
	require.Equal(t, domain.KindAuthorization, domain.KindOf(domain.ErrNotOrganizer))
	require.Equal(t, domain.KindValidation, domain.KindOf(domain.ErrSeatsReduced))
	require.Equal(t, domain.KindValidation, domain.KindOf(domain.ErrTooManySeats))
	require.Equal(t, domain.KindUnknown, domain.KindOf(errors.New("connection refused")))
	require.Equal(t, domain.KindUnknown, domain.KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := errors.Wrap(domain.ErrNotOrganizer, "change seats")

	require.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	require.ErrorIs(t, err, domain.ErrNotOrganizer)

	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "User is not allowed to update this webinar", authErr.Msg)
}
