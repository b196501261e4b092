package coordinator

import (
	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/reviews"
)

// Result is the uniform envelope every coordinator operation returns to
// the UI layer, so callers can render error banners without inspecting
// error types. Err keeps the typed error for transports that need to map
// it onto status codes.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

type ReviewResult struct {
	Result
	Review *reviews.Review `json:"review,omitempty"`
}

type ReviewsResult struct {
	Result
	Reviews []reviews.Review `json:"reviews"`
}

type BookingsResult struct {
	Result
	Bookings []booking.Booking `json:"bookings"`
}

type CheckoutResult struct {
	Result
	Session *booking.CheckoutSession `json:"session,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}
