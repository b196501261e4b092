package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tourbook/internal/app/coordinator"
	domainreviews "tourbook/internal/domain/reviews"
	"tourbook/internal/domain/shared/faults"
	"tourbook/internal/infra/obs"
)

type ReviewsHandler struct {
	Coordinator *coordinator.Coordinator
	Logger      *slog.Logger
}

type createReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type updateReviewRequest struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

func (h ReviewsHandler) Create(c *gin.Context) {
	tourID := c.Param("id")
	if tourID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tour id is required"})
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := h.Coordinator.CreateReview(c.Request.Context(), domainreviews.CreateParams{
		TourID: tourID,
		Rating: req.Rating,
		Text:   req.Text,
	})
	if !result.Success {
		h.fail(c, "review create failed", result.Result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewsHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "review id is required"})
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := h.Coordinator.UpdateReview(c.Request.Context(), id, domainreviews.UpdateParams{
		Rating: req.Rating,
		Text:   req.Text,
	})
	if !result.Success {
		h.fail(c, "review update failed", result.Result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "review id is required"})
		return
	}
	result := h.Coordinator.DeleteReview(c.Request.Context(), id)
	if !result.Success {
		h.fail(c, "review delete failed", result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewsHandler) ListByTour(c *gin.Context) {
	tourID := c.Param("id")
	if tourID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tour id is required"})
		return
	}
	result := h.Coordinator.LoadTourReviews(c.Request.Context(), tourID)
	if !result.Success {
		h.fail(c, "tour reviews load failed", result.Result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewsHandler) Mine(c *gin.Context) {
	c.JSON(http.StatusOK, coordinator.ReviewsResult{
		Result:  coordinator.Result{Success: true},
		Reviews: h.Coordinator.MyReviews(),
	})
}

func (h ReviewsHandler) fail(c *gin.Context, msg string, result coordinator.Result) {
	status := statusFor(result.Err)
	if h.Logger != nil {
		h.Logger.Warn(msg, "status", status, "error", result.Error,
			"request_id", obs.RequestIDFromContext(c.Request.Context()))
	}
	c.JSON(status, result)
}

// statusFor maps the error taxonomy to HTTP status codes for the facade.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainreviews.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, faults.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, faults.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, faults.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, faults.ErrDuplicateReview), errors.Is(err, faults.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, faults.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var _ ReviewsHTTP = ReviewsHandler{}
