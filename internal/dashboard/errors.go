package dashboard

import "errors"

var (
	// ErrInFlight is returned when an operation is submitted while the
	// previous one of the same controller is still outstanding.
	ErrInFlight = errors.New("request already in flight")

	// ErrInvalidDraft is returned when an upload is missing a name,
	// description or file.
	ErrInvalidDraft = errors.New("dataset draft incomplete")

	ErrEmptyQuery      = errors.New("empty query")
	ErrUnknownMode     = errors.New("unknown search mode")
	ErrEmptyCredential = errors.New("empty credential")
	ErrEmptyClientName = errors.New("empty client name")

	// ErrRejected is returned when the backend answered but reported a
	// failure in the response body.
	ErrRejected = errors.New("rejected by backend")
)
