package handlers

import (
	"net/http"
	"time"

	"lawlink/models"
	"lawlink/services/booking"
	"lawlink/services/identity"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Identity identity.IdentityService
	Bookings booking.BookingService
}

type createBookingInput struct {
	LawyerID         string `json:"lawyerId" binding:"required"`
	SessionType      string `json:"sessionType" binding:"required"`
	DurationType     string `json:"durationType" binding:"required"`
	PreferredDate    string `json:"preferredDate" binding:"required"` // "2006-01-02"
	PreferredTime    string `json:"preferredTime" binding:"required"`
	IssueDescription string `json:"issueDescription" binding:"required"`
	ClientNotes      string `json:"clientNotes"`
}

// Create books a consultation with a lawyer.
func (h *BookingHandler) Create(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	preferredDate, err := parseDate(input.PreferredDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid preferred date")
		return
	}

	detail, err := h.Bookings.Create(caller, booking.CreateRequest{
		LawyerID:         input.LawyerID,
		SessionType:      models.SessionType(input.SessionType),
		DurationType:     models.DurationType(input.DurationType),
		PreferredDate:    preferredDate,
		PreferredTime:    input.PreferredTime,
		IssueDescription: input.IssueDescription,
		ClientNotes:      input.ClientNotes,
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, detail, "Booking created")
}

// Get returns one booking, expanded.
func (h *BookingHandler) Get(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	detail, err := h.Bookings.Get(caller, c.Param("id"))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "")
}

// List returns the caller's bookings, optionally filtered by status.
func (h *BookingHandler) List(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	details, err := h.Bookings.List(caller, models.BookingStatus(c.Query("status")))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details, "")
}

type approveBookingInput struct {
	ConfirmedDateTime string `json:"confirmedDateTime" binding:"required"` // RFC 3339
	MeetingLink       string `json:"meetingLink"`
	LawyerNotes       string `json:"lawyerNotes"`
}

// Approve confirms a pending booking.
func (h *BookingHandler) Approve(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input approveBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	confirmed, err := time.Parse(time.RFC3339, input.ConfirmedDateTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid confirmed date and time")
		return
	}

	detail, err := h.Bookings.Approve(caller, c.Param("id"), booking.ApproveRequest{
		ConfirmedDateTime: confirmed,
		MeetingLink:       input.MeetingLink,
		LawyerNotes:       input.LawyerNotes,
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Booking approved")
}

type reasonInput struct {
	Reason string `json:"reason"`
}

// Reject declines a pending booking.
func (h *BookingHandler) Reject(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input reasonInput
	_ = c.ShouldBindJSON(&input)

	detail, err := h.Bookings.Reject(caller, c.Param("id"), input.Reason)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Booking rejected")
}

type completeBookingInput struct {
	SessionNotes string `json:"sessionNotes"`
}

// Complete finishes an approved session.
func (h *BookingHandler) Complete(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input completeBookingInput
	_ = c.ShouldBindJSON(&input)

	detail, err := h.Bookings.Complete(caller, c.Param("id"), input.SessionNotes)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Booking completed")
}

// Cancel withdraws a pending or approved booking.
func (h *BookingHandler) Cancel(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input reasonInput
	_ = c.ShouldBindJSON(&input)

	detail, err := h.Bookings.Cancel(caller, c.Param("id"), input.Reason)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Booking cancelled")
}

type updateNotesInput struct {
	ClientNotes *string `json:"clientNotes"`
	LawyerNotes *string `json:"lawyerNotes"`
	MeetingLink *string `json:"meetingLink"`
}

// UpdateNotes applies the allow-listed non-transition edits.
func (h *BookingHandler) UpdateNotes(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input updateNotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	detail, err := h.Bookings.UpdateNotes(caller, c.Param("id"), booking.NotesPatch{
		ClientNotes: input.ClientNotes,
		LawyerNotes: input.LawyerNotes,
		MeetingLink: input.MeetingLink,
	})
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Booking updated")
}

// CreatePaymentIntent mints a fake payment intent for the booking.
func (h *BookingHandler) CreatePaymentIntent(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	confirmation, err := h.Bookings.CreatePaymentIntent(caller, c.Param("id"))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, confirmation, "Payment recorded")
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
