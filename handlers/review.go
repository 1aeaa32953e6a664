package handlers

import (
	"net/http"

	"lawlink/services/identity"
	"lawlink/services/review"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler serves review submission and listing endpoints.
type ReviewHandler struct {
	Identity identity.IdentityService
	Reviews  review.ReviewService
}

type submitReviewInput struct {
	BookingID  string `json:"bookingId" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"reviewText"`
}

// Submit records a review for a completed booking.
func (h *ReviewHandler) Submit(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input submitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	detail, err := h.Reviews.Submit(caller, review.SubmitRequest{
		BookingID:  input.BookingID,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, detail, "Review submitted")
}

type respondInput struct {
	Response string `json:"response" binding:"required"`
}

// Respond records the lawyer's one-time response to a review.
func (h *ReviewHandler) Respond(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input respondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	detail, err := h.Reviews.Respond(caller, c.Param("id"), input.Response)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Response recorded")
}

// List returns visible reviews, optionally restricted to one lawyer.
func (h *ReviewHandler) List(c *gin.Context) {
	details, err := h.Reviews.List(c.Query("lawyerId"))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details, "")
}
