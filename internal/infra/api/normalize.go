package api

import (
	"encoding/json"
	"fmt"
	"time"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/reviews"
	"tourbook/internal/domain/shared/faults"
)

// The remote store names its identity field "_id" and may embed relations
// either as plain id strings or as nested documents. Normalization is
// total over those documented variants: anything else fails with
// faults.ErrValidation instead of producing a partial entity.

type wireBooking struct {
	ID        string          `json:"_id"`
	Tour      json.RawMessage `json:"tour"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type wireReview struct {
	ID        string          `json:"_id"`
	Tour      json.RawMessage `json:"tour"`
	User      json.RawMessage `json:"user"`
	Rating    int             `json:"rating"`
	Review    string          `json:"review"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type wireRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// flattenRef accepts a relation encoded as either "..." (bare id) or
// {"_id": "...", ...} and returns the id plus, for nested documents, the
// embedded name.
func flattenRef(field string, raw json.RawMessage) (id, name string, err error) {
	if len(raw) == 0 {
		return "", "", fmt.Errorf("%w: missing %s reference", faults.ErrValidation, field)
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		if plain == "" {
			return "", "", fmt.Errorf("%w: empty %s reference", faults.ErrValidation, field)
		}
		return plain, "", nil
	}
	var ref wireRef
	if err := json.Unmarshal(raw, &ref); err == nil && ref.ID != "" {
		return ref.ID, ref.Name, nil
	}
	return "", "", fmt.Errorf("%w: unrecognized %s reference shape", faults.ErrValidation, field)
}

func normalizeBooking(w wireBooking) (booking.Booking, error) {
	if w.ID == "" {
		return booking.Booking{}, fmt.Errorf("%w: booking missing _id", faults.ErrValidation)
	}
	tourID, tourName, err := flattenRef("tour", w.Tour)
	if err != nil {
		return booking.Booking{}, err
	}
	return booking.Booking{
		ID:        w.ID,
		TourID:    tourID,
		TourName:  tourName,
		Status:    booking.Status(w.Status),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

func normalizeReview(w wireReview) (reviews.Review, error) {
	if w.ID == "" {
		return reviews.Review{}, fmt.Errorf("%w: review missing _id", faults.ErrValidation)
	}
	tourID, _, err := flattenRef("tour", w.Tour)
	if err != nil {
		return reviews.Review{}, err
	}
	userID, _, err := flattenRef("user", w.User)
	if err != nil {
		return reviews.Review{}, err
	}
	return reviews.Review{
		ID:        w.ID,
		TourID:    tourID,
		UserID:    userID,
		Rating:    w.Rating,
		Text:      w.Review,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

func decodeBookingDocs(raw json.RawMessage) ([]booking.Booking, error) {
	var docs []wireBooking
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: malformed booking collection: %v", faults.ErrValidation, err)
	}
	out := make([]booking.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := normalizeBooking(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeReviewDoc(raw json.RawMessage) (reviews.Review, error) {
	var doc wireReview
	if err := json.Unmarshal(raw, &doc); err != nil {
		return reviews.Review{}, fmt.Errorf("%w: malformed review document: %v", faults.ErrValidation, err)
	}
	return normalizeReview(doc)
}

func decodeReviewDocs(raw json.RawMessage) ([]reviews.Review, error) {
	var docs []wireReview
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: malformed review collection: %v", faults.ErrValidation, err)
	}
	out := make([]reviews.Review, 0, len(docs))
	for _, doc := range docs {
		r, err := normalizeReview(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
