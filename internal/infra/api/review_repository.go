package api

import (
	"context"
	"net/http"

	"tourbook/internal/domain/reviews"
	"tourbook/internal/domain/shared/faults"
)

// ReviewRepository implements reviews.Repository over the remote API.
type ReviewRepository struct {
	client *Client
}

func NewReviewRepository(client *Client) *ReviewRepository {
	return &ReviewRepository{client: client}
}

func (r *ReviewRepository) ListByTour(ctx context.Context, tourID string) ([]reviews.Review, error) {
	env, err := r.client.do(ctx, http.MethodGet, "/tours/"+tourID+"/reviews", nil)
	if err != nil {
		return nil, err
	}
	return decodeReviewDocs(env.Data.Docs)
}

func (r *ReviewRepository) ListMine(ctx context.Context) ([]reviews.Review, error) {
	env, err := r.client.do(ctx, http.MethodGet, "/reviews/my-reviews", nil)
	if err != nil {
		return nil, err
	}
	return decodeReviewDocs(env.Data.Docs)
}

func (r *ReviewRepository) Create(ctx context.Context, params reviews.CreateParams) (reviews.Review, error) {
	body := map[string]any{
		"rating": params.Rating,
		"review": params.Text,
	}
	env, err := r.client.do(ctx, http.MethodPost, "/tours/"+params.TourID+"/reviews", body)
	if err != nil {
		// The remote signals "already reviewed" as a conflict on this
		// endpoint specifically.
		return reviews.Review{}, faults.AsDuplicate(err)
	}
	return decodeReviewDoc(env.Data.Doc)
}

func (r *ReviewRepository) Update(ctx context.Context, id string, patch reviews.UpdateParams) (reviews.Review, error) {
	body := map[string]any{}
	if patch.Rating != nil {
		body["rating"] = *patch.Rating
	}
	if patch.Text != nil {
		body["review"] = *patch.Text
	}
	env, err := r.client.do(ctx, http.MethodPatch, "/reviews/"+id, body)
	if err != nil {
		return reviews.Review{}, err
	}
	return decodeReviewDoc(env.Data.Doc)
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, "/reviews/"+id, nil)
	return err
}

var _ reviews.Repository = (*ReviewRepository)(nil)
