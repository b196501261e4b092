package state

import (
	"sync"

	"tourbook/internal/domain/booking"
)

// BookingsCache holds the signed-in user's bookings, keyed by booking id
// with an index by tour id. It is never the source of truth: contents are
// rebuilt from the remote store on every refresh. All mutation goes
// through its methods; values returned to callers are copies.
type BookingsCache struct {
	mu      sync.RWMutex
	items   map[string]*booking.Booking
	byTour  map[string]string
	ordered []string
}

func NewBookingsCache() *BookingsCache {
	return &BookingsCache{
		items:  make(map[string]*booking.Booking),
		byTour: make(map[string]string),
	}
}

// Replace rebuilds the cache from a freshly fetched list, preserving the
// remote ordering.
func (c *BookingsCache) Replace(bookings []booking.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*booking.Booking, len(bookings))
	c.byTour = make(map[string]string, len(bookings))
	c.ordered = c.ordered[:0]
	for i := range bookings {
		b := bookings[i]
		c.items[b.ID] = &b
		c.byTour[b.TourID] = b.ID
		c.ordered = append(c.ordered, b.ID)
	}
}

// Get returns a copy of the booking with the given id.
func (c *BookingsCache) Get(id string) (booking.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.items[id]
	if !ok {
		return booking.Booking{}, false
	}
	return *b, true
}

// ByTour returns a copy of the booking for the given tour, if any.
func (c *BookingsCache) ByTour(tourID string) (booking.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byTour[tourID]
	if !ok {
		return booking.Booking{}, false
	}
	return *c.items[id], true
}

// SetStatus flips the status of one booking. Reports whether the booking
// was present.
func (c *BookingsCache) SetStatus(id string, status booking.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[id]
	if !ok {
		return false
	}
	b.Status = status
	return true
}

// List returns all cached bookings in remote order.
func (c *BookingsCache) List() []booking.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]booking.Booking, 0, len(c.ordered))
	for _, id := range c.ordered {
		out = append(out, *c.items[id])
	}
	return out
}

// PendingReview returns the bookings still awaiting a review, in remote
// order.
func (c *BookingsCache) PendingReview() []booking.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []booking.Booking
	for _, id := range c.ordered {
		if b := c.items[id]; b.Status == booking.StatusPendingReview {
			out = append(out, *b)
		}
	}
	return out
}

// StatusForTour reports the current status of the booking for a tour.
func (c *BookingsCache) StatusForTour(tourID string) (booking.Status, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byTour[tourID]
	if !ok {
		return "", false
	}
	return c.items[id].Status, true
}

func (c *BookingsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
