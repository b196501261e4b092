package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/shared/faults"
)

// BookingRepository implements booking.Repository over the remote API.
type BookingRepository struct {
	client *Client
}

func NewBookingRepository(client *Client) *BookingRepository {
	return &BookingRepository{client: client}
}

func (r *BookingRepository) ListForUser(ctx context.Context) ([]booking.Booking, error) {
	env, err := r.client.do(ctx, http.MethodGet, "/bookings/my-bookings", nil)
	if err != nil {
		return nil, err
	}
	return decodeBookingDocs(env.Data.Docs)
}

func (r *BookingRepository) CreateCheckoutSession(ctx context.Context, tourID string) (booking.CheckoutSession, error) {
	env, err := r.client.do(ctx, http.MethodPost, "/bookings/checkout-session/"+tourID, nil)
	if err != nil {
		return booking.CheckoutSession{}, err
	}
	var session booking.CheckoutSession
	if err := json.Unmarshal(env.Data.Doc, &session); err != nil || session.ID == "" {
		return booking.CheckoutSession{}, fmt.Errorf("%w: malformed checkout session", faults.ErrValidation)
	}
	return session, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	body := map[string]string{"status": string(status)}
	_, err := r.client.do(ctx, http.MethodPatch, "/bookings/"+id, body)
	return err
}

var _ booking.Repository = (*BookingRepository)(nil)
