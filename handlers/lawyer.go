package handlers

import (
	"net/http"
	"strconv"

	"lawlink/models"
	"lawlink/services/identity"
	"lawlink/services/lawyer"
	"lawlink/services/review"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
)

// LawyerHandler serves the provider catalog endpoints. Search, Get,
// GetAvailability and ListReviews are public; the rest require the
// owning lawyer.
type LawyerHandler struct {
	Identity identity.IdentityService
	Lawyers  lawyer.LawyerService
	Reviews  review.ReviewService
}

// Search returns one page of the catalog.
func (h *LawyerHandler) Search(c *gin.Context) {
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)
	maxFee, _ := strconv.ParseFloat(c.Query("maxFeePerHour"), 64)

	result, err := h.Lawyers.Search(lawyer.SearchRequest{
		Specialization: c.Query("specialization"),
		Language:       c.Query("language"),
		MinRating:      minRating,
		MaxFeePerHour:  maxFee,
		NameQuery:      c.Query("q"),
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "pageSize", 12),
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result, "")
}

// Get returns one lawyer profile.
func (h *LawyerHandler) Get(c *gin.Context) {
	detail, err := h.Lawyers.Get(c.Param("id"))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "")
}

type updateLawyerInput struct {
	YearsOfExperience *int               `json:"yearsOfExperience"`
	Specializations   []string           `json:"specializations"`
	LanguagesSpoken   []string           `json:"languagesSpoken"`
	Education         []models.Education `json:"education"`
	About             *string            `json:"about"`
	Fees              *models.Fees       `json:"fees"`
	SuccessRate       *float64           `json:"successRate"`
}

// Update edits the caller's own profile.
func (h *LawyerHandler) Update(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input updateLawyerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	detail, err := h.Lawyers.Update(caller, c.Param("id"), lawyer.UpdateRequest{
		YearsOfExperience: input.YearsOfExperience,
		Specializations:   input.Specializations,
		LanguagesSpoken:   input.LanguagesSpoken,
		Education:         input.Education,
		About:             input.About,
		Fees:              input.Fees,
		SuccessRate:       input.SuccessRate,
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Profile updated")
}

// Deactivate soft-deletes the caller's own profile.
func (h *LawyerHandler) Deactivate(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	if err := h.Lawyers.Deactivate(caller, c.Param("id")); err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil, "Profile deactivated")
}

// GetAvailability returns the lawyer's weekly template.
func (h *LawyerHandler) GetAvailability(c *gin.Context) {
	availability, err := h.Lawyers.GetAvailability(c.Param("id"))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, availability, "")
}

type setAvailabilityInput struct {
	Availability []models.DayAvailability `json:"availability" binding:"required"`
}

// SetAvailability replaces the weekly template.
func (h *LawyerHandler) SetAvailability(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input setAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	availability, err := h.Lawyers.SetAvailability(caller, c.Param("id"), input.Availability)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, availability, "Availability updated")
}

// ListReviews returns one page of the lawyer's visible reviews with
// the rating histogram.
func (h *LawyerHandler) ListReviews(c *gin.Context) {
	result, err := h.Reviews.ListForLawyer(c.Param("id"),
		queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result, "")
}

func queryInt(c *gin.Context, key string, fallback int) int {
	val, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return val
}
