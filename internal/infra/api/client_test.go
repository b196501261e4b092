package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/reviews"
	"tourbook/internal/domain/shared/faults"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", server.Client(), nil)
}

func writeDocs(w http.ResponseWriter, docs any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   map[string]any{"docs": docs},
	})
}

func writeDoc(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   map[string]any{"doc": doc},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "fail", "message": message})
}

func TestListForUserNormalizesWireShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/bookings/my-bookings", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeDocs(w, []map[string]any{
			{
				"_id":    "b1",
				"tour":   map[string]any{"_id": "t1", "name": "Forest Hiker"},
				"user":   "u1",
				"status": "pending-review",
			},
			{
				"_id":    "b2",
				"tour":   "t2",
				"user":   map[string]any{"_id": "u1"},
				"status": "reviewed",
			},
		})
	})

	list, err := NewBookingRepository(client).ListForUser(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "b1", list[0].ID)
	assert.Equal(t, "t1", list[0].TourID)
	assert.Equal(t, "Forest Hiker", list[0].TourName)
	assert.Equal(t, booking.StatusPendingReview, list[0].Status)

	assert.Equal(t, "t2", list[1].TourID)
	assert.Empty(t, list[1].TourName)
	assert.Equal(t, booking.StatusReviewed, list[1].Status)
}

func TestListForUserRejectsUnknownReferenceShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDocs(w, []map[string]any{
			{"_id": "b1", "tour": 42, "status": "pending-review"},
		})
	})

	_, err := NewBookingRepository(client).ListForUser(context.Background())
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestListForUserRejectsMissingIdentity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDocs(w, []map[string]any{
			{"tour": "t1", "status": "pending-review"},
		})
	})

	_, err := NewBookingRepository(client).ListForUser(context.Background())
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestCreateReviewMapsConflictToDuplicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tours/t1/reviews", r.URL.Path)
		writeError(w, http.StatusConflict, "you already reviewed this tour")
	})

	_, err := NewReviewRepository(client).Create(context.Background(), reviews.CreateParams{TourID: "t1", Rating: 5})
	require.ErrorIs(t, err, faults.ErrDuplicateReview)

	var remote *faults.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusConflict, remote.StatusCode)
	assert.Equal(t, "you already reviewed this tour", remote.Message)
}

func TestCreateReviewDecodesCreatedDoc(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 5, body["rating"])
		assert.Equal(t, "Great!", body["review"])
		writeDoc(w, http.StatusCreated, map[string]any{
			"_id":    "r1",
			"tour":   "t1",
			"user":   "u1",
			"rating": 5,
			"review": "Great!",
		})
	})

	created, err := NewReviewRepository(client).Create(context.Background(), reviews.CreateParams{TourID: "t1", Rating: 5, Text: "Great!"})
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)
	assert.Equal(t, "t1", created.TourID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "Great!", created.Text)
}

func TestUpdateBookingStatusConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/bookings/b1", r.URL.Path)
		writeError(w, http.StatusConflict, "transition rejected")
	})

	err := NewBookingRepository(client).UpdateStatus(context.Background(), "b1", booking.StatusReviewed)
	assert.ErrorIs(t, err, faults.ErrConflict)
	assert.NotErrorIs(t, err, faults.ErrDuplicateReview)
}

func TestAuthErrorMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "please log in")
	})

	_, err := NewBookingRepository(client).ListForUser(context.Background())
	assert.ErrorIs(t, err, faults.ErrAuth)
}

func TestDeleteReviewNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no review with that id")
	})

	err := NewReviewRepository(client).Delete(context.Background(), "r9")
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestDeleteReviewNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	err := NewReviewRepository(client).Delete(context.Background(), "r1")
	assert.NoError(t, err)
}

func TestNetworkErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(server.URL, "tok", server.Client(), nil)
	server.Close()

	_, err := NewBookingRepository(client).ListForUser(context.Background())
	assert.ErrorIs(t, err, faults.ErrNetwork)
}

func TestCreateCheckoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings/checkout-session/t1", r.URL.Path)
		writeDoc(w, http.StatusCreated, map[string]any{"id": "cs_123", "url": "https://pay.example/cs_123"})
	})

	session, err := NewBookingRepository(client).CreateCheckoutSession(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example/cs_123", session.URL)
}

func TestCheckoutSessionValidationOnUnknownTour(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, "no tour with that id")
	})

	_, err := NewBookingRepository(client).CreateCheckoutSession(context.Background(), "nope")
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestMalformedEnvelopeFailsValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := NewReviewRepository(client).ListMine(context.Background())
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestListTourReviewsPreservesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tours/t1/reviews", r.URL.Path)
		writeDocs(w, []map[string]any{
			{"_id": "r2", "tour": "t1", "user": "u2", "rating": 4},
			{"_id": "r1", "tour": "t1", "user": "u1", "rating": 5},
		})
	})

	list, err := NewReviewRepository(client).ListByTour(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, "r1", list[1].ID)
}
