package reviews

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")

// Review is a user-authored rating tied to one (user, tour) pair. The
// remote store enforces at most one review per pair; this application
// assumes that invariant rather than re-validating it.
type Review struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams carries the user-supplied fields for a new review.
type CreateParams struct {
	TourID string
	Rating int
	Text   string
}

// UpdateParams patches an existing review; nil fields are left unchanged.
type UpdateParams struct {
	Rating *int
	Text   *string
}

func (p CreateParams) Validate() error {
	if p.Rating < 1 || p.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func (p UpdateParams) Validate() error {
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// Normalized returns params with trimmed text.
func (p CreateParams) Normalized() CreateParams {
	p.Text = strings.TrimSpace(p.Text)
	return p
}

// Repository is the remote-facing port for reviews.
type Repository interface {
	ListByTour(ctx context.Context, tourID string) ([]Review, error)
	ListMine(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, params CreateParams) (Review, error)
	Update(ctx context.Context, id string, patch UpdateParams) (Review, error)
	Delete(ctx context.Context, id string) error
}
