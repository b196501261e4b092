package booking

import (
	"context"
	"time"
)

// Status is the review-related lifecycle state of a booking. The remote
// store owns the full lifecycle; states other than the two below are
// opaque to this application and pass through untouched.
type Status string

const (
	StatusPendingReview Status = "pending-review"
	StatusReviewed      Status = "reviewed"
)

// Booking is the canonical local shape of a purchased tour slot,
// normalized from the remote wire format.
type Booking struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour_id"`
	TourName  string    `json:"tour_name,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckoutSession is the opaque reference handed back by the payment
// provider; the UI redirects the user to URL.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Repository is the remote-facing port for bookings. None of the
// operations are idempotent by construction: callers must re-check the
// current status before retrying UpdateStatus.
type Repository interface {
	ListForUser(ctx context.Context) ([]Booking, error)
	CreateCheckoutSession(ctx context.Context, tourID string) (CheckoutSession, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
