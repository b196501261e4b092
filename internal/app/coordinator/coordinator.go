package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/app/state"
	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/reviews"
	"tourbook/internal/domain/shared/faults"
)

const defaultSyncTimeout = 10 * time.Second

// Publisher is the observability channel for events that must not affect
// operation outcomes (review lifecycle, failed status syncs).
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Coordinator ties the review lifecycle to booking status. Review
// existence is the source of truth for "has this booking been reviewed";
// the booking status is a derived, cached signal kept in sync
// opportunistically. A review mutation never fails because of a
// booking-status sync failure: local and remote status may diverge until
// the next full refresh, which is the only correction mechanism.
type Coordinator struct {
	bookings booking.Repository
	reviews  reviews.Repository

	bookingState *state.BookingsCache
	reviewState  *state.ReviewsCache

	events      Publisher
	topicPrefix string
	logger      *slog.Logger
	syncTimeout time.Duration

	wg sync.WaitGroup

	readyMu  sync.Mutex
	readyErr error
}

// Options carries optional collaborators.
type Options struct {
	Events      Publisher
	TopicPrefix string
	Logger      *slog.Logger
	SyncTimeout time.Duration
}

func New(bookingRepo booking.Repository, reviewRepo reviews.Repository, bookingState *state.BookingsCache, reviewState *state.ReviewsCache, opts Options) *Coordinator {
	timeout := opts.SyncTimeout
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &Coordinator{
		bookings:     bookingRepo,
		reviews:      reviewRepo,
		bookingState: bookingState,
		reviewState:  reviewState,
		events:       opts.Events,
		topicPrefix:  opts.TopicPrefix,
		logger:       opts.Logger,
		syncTimeout:  timeout,
		readyErr:     errors.New("bookings not loaded"),
	}
}

// RefreshBookings reloads the user's bookings from the remote store,
// replacing the local cache. This is also how any local/remote status
// divergence heals.
func (c *Coordinator) RefreshBookings(ctx context.Context) BookingsResult {
	list, err := c.bookings.ListForUser(ctx)
	c.setReady(err)
	if err != nil {
		return BookingsResult{Result: failure(err)}
	}
	c.bookingState.Replace(list)
	return BookingsResult{Result: ok(), Bookings: list}
}

// Ready reports whether the last bookings load succeeded. Serving cached
// state before any load would hand out an empty, misleading view, so the
// readiness probe fails until the first refresh lands.
func (c *Coordinator) Ready() error {
	c.readyMu.Lock()
	defer c.readyMu.Unlock()
	return c.readyErr
}

func (c *Coordinator) setReady(err error) {
	c.readyMu.Lock()
	c.readyErr = err
	c.readyMu.Unlock()
}

// RefreshMyReviews reloads the user's own reviews.
func (c *Coordinator) RefreshMyReviews(ctx context.Context) ReviewsResult {
	list, err := c.reviews.ListMine(ctx)
	if err != nil {
		return ReviewsResult{Result: failure(err)}
	}
	c.reviewState.ReplaceMine(list)
	return ReviewsResult{Result: ok(), Reviews: list}
}

// LoadTourReviews fetches and caches the public reviews of one tour.
func (c *Coordinator) LoadTourReviews(ctx context.Context, tourID string) ReviewsResult {
	list, err := c.reviews.ListByTour(ctx, tourID)
	if err != nil {
		return ReviewsResult{Result: failure(err)}
	}
	c.reviewState.SetTourReviews(tourID, list)
	return ReviewsResult{Result: ok(), Reviews: list}
}

// CreateReview persists a new review, then opportunistically flips the
// matching booking from pending-review to reviewed. The review is the
// primary operation: its failure aborts everything and leaves the booking
// untouched, while a failing status sync is logged and swallowed.
func (c *Coordinator) CreateReview(ctx context.Context, params reviews.CreateParams) ReviewResult {
	params = params.Normalized()
	if err := params.Validate(); err != nil {
		return ReviewResult{Result: failure(err)}
	}

	created, err := c.reviews.Create(ctx, params)
	if err != nil {
		return ReviewResult{Result: failure(err)}
	}
	c.reviewState.Upsert(created)
	c.publish("review.created", created.TourID, created)

	c.syncBookingStatus(created.TourID, booking.StatusPendingReview, booking.StatusReviewed)
	return ReviewResult{Result: ok(), Review: &created}
}

// UpdateReview persists a patch and refreshes the cached copy. Editing a
// review does not change its existence, so booking status is untouched.
func (c *Coordinator) UpdateReview(ctx context.Context, id string, patch reviews.UpdateParams) ReviewResult {
	if err := patch.Validate(); err != nil {
		return ReviewResult{Result: failure(err)}
	}
	if _, found := c.reviewState.Get(id); !found {
		return ReviewResult{Result: failure(fmt.Errorf("%w: review %s", faults.ErrNotFound, id))}
	}
	updated, err := c.reviews.Update(ctx, id, patch)
	if err != nil {
		return ReviewResult{Result: failure(err)}
	}
	c.reviewState.Upsert(updated)
	return ReviewResult{Result: ok(), Review: &updated}
}

// DeleteReview removes a review and opportunistically flips the matching
// booking back to pending-review. The review must be known locally; the
// remote store is not consulted for unknown ids.
func (c *Coordinator) DeleteReview(ctx context.Context, id string) Result {
	local, found := c.reviewState.Get(id)
	if !found {
		return failure(fmt.Errorf("%w: review %s", faults.ErrNotFound, id))
	}
	if err := c.reviews.Delete(ctx, id); err != nil {
		return failure(err)
	}
	removed, _ := c.reviewState.Remove(id)
	if removed.ID == "" {
		removed = local
	}
	c.publish("review.deleted", removed.TourID, removed)

	c.syncBookingStatus(removed.TourID, booking.StatusReviewed, booking.StatusPendingReview)
	return ok()
}

// BeginCheckout asks the remote store for a hosted payment session.
func (c *Coordinator) BeginCheckout(ctx context.Context, tourID string) CheckoutResult {
	session, err := c.bookings.CreateCheckoutSession(ctx, tourID)
	if err != nil {
		return CheckoutResult{Result: failure(err)}
	}
	return CheckoutResult{Result: ok(), Session: &session}
}

// syncBookingStatus is the secondary effect: if the tour has a cached
// booking in the expected status, the local copy flips immediately and a
// detached task best-effort persists the flip. Remote failure is reported
// through logs and the event channel only.
func (c *Coordinator) syncBookingStatus(tourID string, from, to booking.Status) {
	b, found := c.bookingState.ByTour(tourID)
	if !found || b.Status != from {
		return
	}
	c.bookingState.SetStatus(b.ID, to)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.syncTimeout)
		defer cancel()
		if err := c.bookings.UpdateStatus(ctx, b.ID, to); err != nil {
			if c.logger != nil {
				c.logger.Warn("booking status sync failed",
					"booking_id", b.ID, "tour_id", tourID, "from", from, "to", to, "error", err)
			}
			c.publish("booking.sync_failed", b.ID, map[string]any{
				"booking_id": b.ID,
				"tour_id":    tourID,
				"from":       from,
				"to":         to,
				"error":      err.Error(),
			})
		}
	}()
}

// Wait blocks until all in-flight status sync tasks finish. Called on
// shutdown and by tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) publish(name, key string, payload any) {
	if c.events == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"id":   uuid.NewString(),
		"type": name,
		"time": time.Now().UTC(),
		"data": payload,
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.syncTimeout)
	defer cancel()
	topic := c.topicPrefix + name
	if err := c.events.Publish(ctx, topic, key, data, map[string]string{"content-type": "application/json"}); err != nil && c.logger != nil {
		c.logger.Warn("event publish failed", "topic", topic, "error", err)
	}
}

// Read-only helpers over cache state.

// Bookings returns the cached bookings.
func (c *Coordinator) Bookings() []booking.Booking {
	return c.bookingState.List()
}

// BookingForTour finds the cached booking for a tour.
func (c *Coordinator) BookingForTour(tourID string) (booking.Booking, bool) {
	return c.bookingState.ByTour(tourID)
}

// PendingReview lists cached bookings still awaiting a review.
func (c *Coordinator) PendingReview() []booking.Booking {
	return c.bookingState.PendingReview()
}

// StatusForTour reports the cached status of the booking for a tour.
func (c *Coordinator) StatusForTour(tourID string) (booking.Status, bool) {
	return c.bookingState.StatusForTour(tourID)
}

// MyReviews returns the user's cached reviews.
func (c *Coordinator) MyReviews() []reviews.Review {
	return c.reviewState.Mine()
}

// HasReviewed reports whether the user already reviewed the tour. Gates
// UI prompts only; the remote duplicate check remains authoritative.
func (c *Coordinator) HasReviewed(tourID string) bool {
	return c.reviewState.HasReviewed(tourID)
}
