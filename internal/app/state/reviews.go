package state

import (
	"sync"

	"tourbook/internal/domain/reviews"
)

// ReviewsCache holds two views: public reviews per tour (any author) and
// the signed-in user's own reviews. Like BookingsCache it is rebuilt from
// the remote store on demand and mutated only through its methods.
type ReviewsCache struct {
	mu          sync.RWMutex
	byTour      map[string][]reviews.Review
	mine        map[string]*reviews.Review
	mineByTour  map[string]string
	mineOrdered []string
}

func NewReviewsCache() *ReviewsCache {
	return &ReviewsCache{
		byTour:     make(map[string][]reviews.Review),
		mine:       make(map[string]*reviews.Review),
		mineByTour: make(map[string]string),
	}
}

// ReplaceMine rebuilds the user's own reviews from a fresh fetch.
func (c *ReviewsCache) ReplaceMine(list []reviews.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mine = make(map[string]*reviews.Review, len(list))
	c.mineByTour = make(map[string]string, len(list))
	c.mineOrdered = c.mineOrdered[:0]
	for i := range list {
		r := list[i]
		c.mine[r.ID] = &r
		c.mineByTour[r.TourID] = r.ID
		c.mineOrdered = append(c.mineOrdered, r.ID)
	}
}

// SetTourReviews stores the public review list for one tour.
func (c *ReviewsCache) SetTourReviews(tourID string, list []reviews.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byTour[tourID] = append([]reviews.Review(nil), list...)
}

// TourReviews returns the cached public reviews for a tour, in remote
// order. The second return reports whether the tour has been loaded.
func (c *ReviewsCache) TourReviews(tourID string) ([]reviews.Review, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.byTour[tourID]
	if !ok {
		return nil, false
	}
	return append([]reviews.Review(nil), list...), true
}

// Get returns a copy of one of the user's own reviews.
func (c *ReviewsCache) Get(id string) (reviews.Review, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.mine[id]
	if !ok {
		return reviews.Review{}, false
	}
	return *r, true
}

// Mine returns the user's own reviews in remote order, with reviews
// created this session appended last.
func (c *ReviewsCache) Mine() []reviews.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]reviews.Review, 0, len(c.mineOrdered))
	for _, id := range c.mineOrdered {
		out = append(out, *c.mine[id])
	}
	return out
}

// Upsert stores or replaces one of the user's reviews and patches the
// tour's public list when that list has already been loaded.
func (c *ReviewsCache) Upsert(r reviews.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mine[r.ID]; !ok {
		c.mineOrdered = append(c.mineOrdered, r.ID)
	}
	c.mine[r.ID] = &r
	c.mineByTour[r.TourID] = r.ID

	list, ok := c.byTour[r.TourID]
	if !ok {
		return
	}
	for i := range list {
		if list[i].ID == r.ID {
			list[i] = r
			return
		}
	}
	c.byTour[r.TourID] = append(list, r)
}

// Remove deletes one of the user's reviews from both views, returning the
// removed review so callers can act on its tour id.
func (c *ReviewsCache) Remove(id string) (reviews.Review, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.mine[id]
	if !ok {
		return reviews.Review{}, false
	}
	removed := *r
	delete(c.mine, id)
	delete(c.mineByTour, removed.TourID)
	for i, oid := range c.mineOrdered {
		if oid == id {
			c.mineOrdered = append(c.mineOrdered[:i], c.mineOrdered[i+1:]...)
			break
		}
	}
	if list, ok := c.byTour[removed.TourID]; ok {
		for i := range list {
			if list[i].ID == id {
				c.byTour[removed.TourID] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return removed, true
}

// HasReviewed reports whether the user already reviewed the tour. This
// gates the UI only; the remote store remains the arbiter of duplicates.
func (c *ReviewsCache) HasReviewed(tourID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.mineByTour[tourID]
	return ok
}

// MineForTour returns the user's review for a tour, if any.
func (c *ReviewsCache) MineForTour(tourID string) (reviews.Review, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.mineByTour[tourID]
	if !ok {
		return reviews.Review{}, false
	}
	return *c.mine[id], true
}
