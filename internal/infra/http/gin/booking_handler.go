package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tourbook/internal/app/coordinator"
	"tourbook/internal/infra/obs"
)

type BookingsHandler struct {
	Coordinator *coordinator.Coordinator
	Logger      *slog.Logger
}

func (h BookingsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, coordinator.BookingsResult{
		Result:   coordinator.Result{Success: true},
		Bookings: h.Coordinator.Bookings(),
	})
}

func (h BookingsHandler) PendingReview(c *gin.Context) {
	c.JSON(http.StatusOK, coordinator.BookingsResult{
		Result:   coordinator.Result{Success: true},
		Bookings: h.Coordinator.PendingReview(),
	})
}

func (h BookingsHandler) StatusForTour(c *gin.Context) {
	tourID := c.Param("id")
	if tourID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tour id is required"})
		return
	}
	status, found := h.Coordinator.StatusForTour(tourID)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"booked":       found,
		"status":       status,
		"has_reviewed": h.Coordinator.HasReviewed(tourID),
	})
}

func (h BookingsHandler) Checkout(c *gin.Context) {
	tourID := c.Param("id")
	if tourID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tour id is required"})
		return
	}
	result := h.Coordinator.BeginCheckout(c.Request.Context(), tourID)
	if !result.Success {
		h.fail(c, "checkout session failed", result.Result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Refresh reloads bookings and the user's reviews from the remote store.
// This is the reconciliation path for any booking-status divergence left
// by a failed secondary sync.
func (h BookingsHandler) Refresh(c *gin.Context) {
	bookings := h.Coordinator.RefreshBookings(c.Request.Context())
	if !bookings.Success {
		h.fail(c, "bookings refresh failed", bookings.Result)
		return
	}
	myReviews := h.Coordinator.RefreshMyReviews(c.Request.Context())
	if !myReviews.Success {
		h.fail(c, "reviews refresh failed", myReviews.Result)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings.Bookings,
		"reviews":  myReviews.Reviews,
	})
}

func (h BookingsHandler) fail(c *gin.Context, msg string, result coordinator.Result) {
	status := statusFor(result.Err)
	if h.Logger != nil {
		h.Logger.Warn(msg, "status", status, "error", result.Error,
			"request_id", obs.RequestIDFromContext(c.Request.Context()))
	}
	c.JSON(status, result)
}

var _ BookingsHTTP = BookingsHandler{}
