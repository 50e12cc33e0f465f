package domain

import "github.com/cockroachdb/errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAuthorization
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }
func (e *NotFoundError) Kind() Kind { return KindNotFound }

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }
func (e *AuthorizationError) Kind() Kind { return KindAuthorization }

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Kind() Kind { return KindValidation }

var (
	ErrWebinarNotFound = &NotFoundError{Msg: "Webinar not found"}
	ErrNotOrganizer    = &AuthorizationError{Msg: "User is not allowed to update this webinar"}
	ErrSeatsReduced    = &ValidationError{Msg: "You cannot reduce the number of seats"}
	ErrTooManySeats    = &ValidationError{Msg: "Webinar must have at most 1000 seats"}
	ErrNotEnoughSeats  = &ValidationError{Msg: "Webinar must have at least 1 seat"}

	ErrSerializationFailure = errors.New("serialization failure")
)

// KindOf classifies err so transports can pick a response without
// looking at the message. Infrastructure errors are KindUnknown.
func KindOf(err error) Kind {
	var kinded interface{ Kind() Kind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindUnknown
}
