package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for every remote failure class the application distinguishes.
// Callers match with errors.Is.
var (
	ErrNetwork         = errors.New("faults: remote unreachable")
	ErrAuth            = errors.New("faults: not authenticated")
	ErrValidation      = errors.New("faults: rejected by remote store")
	ErrDuplicateReview = errors.New("faults: review already exists for this tour")
	ErrNotFound        = errors.New("faults: not found")
	ErrConflict        = errors.New("faults: transition rejected")
)

// RemoteError carries the remote error envelope alongside its taxonomy class.
type RemoteError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// FromStatus maps an HTTP error status to a RemoteError wrapping the
// matching sentinel. 409 defaults to ErrConflict; operations with a more
// specific meaning for a conflict (duplicate review) override the kind.
func FromStatus(status int, message string) error {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrAuth
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusConflict:
		kind = ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = ErrValidation
	default:
		kind = ErrNetwork
	}
	return &RemoteError{StatusCode: status, Message: message, Kind: kind}
}

// AsDuplicate rewrites a conflict-class error into a duplicate-review error,
// keeping status and message intact.
func AsDuplicate(err error) error {
	var remote *RemoteError
	if errors.As(err, &remote) && errors.Is(remote.Kind, ErrConflict) {
		return &RemoteError{StatusCode: remote.StatusCode, Message: remote.Message, Kind: ErrDuplicateReview}
	}
	return err
}
