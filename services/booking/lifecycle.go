package booking

import (
	"strings"
	"time"

	"lawlink/models"
	"lawlink/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const defaultReason = "No reason provided"

// Create validates a client's request, prices it from the lawyer's
// current fee schedule and inserts a pending booking. The amount is
// frozen here; later fee changes never touch existing bookings.
func (s *DefaultBookingService) Create(caller *models.Caller, req CreateRequest) (*models.BookingDetail, error) {
	if caller.Role != models.RoleClient {
		return nil, utils.Forbidden("Only clients can create bookings")
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	lawyer, err := s.Lawyers.GetByID(req.LawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	if !lawyer.IsActive {
		return nil, utils.InvalidInput("Lawyer is not available")
	}

	now := time.Now()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		ClientID:         caller.UserID,
		LawyerID:         lawyer.ID,
		SessionType:      req.SessionType,
		DurationType:     req.DurationType,
		PreferredDate:    req.PreferredDate,
		PreferredTime:    req.PreferredTime,
		Status:           models.BookingPending,
		IssueDescription: strings.TrimSpace(req.IssueDescription),
		ClientNotes:      strings.TrimSpace(req.ClientNotes),
		Amount:           amountFor(lawyer.Fees, req.DurationType),
		Currency:         lawyer.Fees.Currency,
		PaymentStatus:    models.PaymentPending,
		RequestedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Bookings.Create(booking); err != nil {
		return nil, err
	}
	s.Logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("clientId", booking.ClientID),
		zap.String("lawyerId", booking.LawyerID),
		zap.Float64("amount", booking.Amount))
	return s.expand(booking)
}

// Approve moves a pending booking to approved, recording the confirmed
// slot the lawyer committed to.
func (s *DefaultBookingService) Approve(caller *models.Caller, bookingID string, req ApproveRequest) (*models.BookingDetail, error) {
	if req.ConfirmedDateTime.IsZero() {
		return nil, utils.InvalidInput("Confirmed date and time is required")
	}

	booking, _, err := s.ownedByLawyer(caller, bookingID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":            models.BookingApproved,
		"approvedAt":        time.Now(),
		"confirmedDateTime": req.ConfirmedDateTime,
	}
	if link := strings.TrimSpace(req.MeetingLink); link != "" {
		set["meetingLink"] = link
	}
	if notes := strings.TrimSpace(req.LawyerNotes); notes != "" {
		set["lawyerNotes"] = notes
	}

	matched, err := s.Bookings.Transition(booking.ID, []models.BookingStatus{models.BookingPending}, set)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.InvalidTransition("Only pending bookings can be approved")
	}
	s.Logger.Info("Booking approved", zap.String("bookingId", booking.ID))
	return s.refresh(booking.ID)
}

// Reject declines a pending booking, recording the reason in the
// lawyer's notes.
func (s *DefaultBookingService) Reject(caller *models.Caller, bookingID, reason string) (*models.BookingDetail, error) {
	booking, _, err := s.ownedByLawyer(caller, bookingID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultReason
	}
	set := bson.M{
		"status":      models.BookingRejected,
		"rejectedAt":  time.Now(),
		"lawyerNotes": reason,
	}

	matched, err := s.Bookings.Transition(booking.ID, []models.BookingStatus{models.BookingPending}, set)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.InvalidTransition("Only pending bookings can be rejected")
	}
	s.Logger.Info("Booking rejected", zap.String("bookingId", booking.ID))
	return s.refresh(booking.ID)
}

// Complete finishes an approved session. It marks the booking paid,
// bumps the lawyer's solved-case counter and hands the payment
// confirmation to the async outbox. The outbox hand-off is best effort;
// a queue failure never rolls the completion back.
func (s *DefaultBookingService) Complete(caller *models.Caller, bookingID, sessionNotes string) (*models.BookingDetail, error) {
	booking, lawyer, err := s.ownedByLawyer(caller, bookingID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":        models.BookingCompleted,
		"completedAt":   time.Now(),
		"paymentStatus": models.PaymentPaid,
	}
	if notes := strings.TrimSpace(sessionNotes); notes != "" {
		set["lawyerNotes"] = notes
	}

	matched, err := s.Bookings.Transition(booking.ID, []models.BookingStatus{models.BookingApproved}, set)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.InvalidTransition("Only approved bookings can be completed")
	}

	if err := s.Lawyers.IncrementCasesSolved(lawyer.ID); err != nil {
		s.Logger.Error("Failed to increment solved cases",
			zap.String("lawyerId", lawyer.ID), zap.Error(err))
	}

	if s.Payments != nil {
		payload := models.PaymentConfirmPayload{
			BookingID: booking.ID,
			LawyerID:  booking.LawyerID,
			ClientID:  booking.ClientID,
			Amount:    booking.Amount,
			Currency:  booking.Currency,
		}
		if err := s.Payments.EnqueuePaymentConfirmation(payload); err != nil {
			s.Logger.Error("Failed to enqueue payment confirmation",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	s.Logger.Info("Booking completed", zap.String("bookingId", booking.ID))
	return s.refresh(booking.ID)
}

// Cancel lets either party withdraw a pending or approved booking. A
// paid booking flips to refunded in the same write.
func (s *DefaultBookingService) Cancel(caller *models.Caller, bookingID, reason string) (*models.BookingDetail, error) {
	booking, err := s.ownedByEither(caller, bookingID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultReason
	}
	set := bson.M{
		"status":             models.BookingCancelled,
		"cancelledAt":        time.Now(),
		"cancellationReason": reason,
	}
	if booking.PaymentStatus == models.PaymentPaid {
		set["paymentStatus"] = models.PaymentRefunded
	}

	from := []models.BookingStatus{models.BookingPending, models.BookingApproved}
	matched, err := s.Bookings.Transition(booking.ID, from, set)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.InvalidTransition("Cannot cancel this booking")
	}
	s.Logger.Info("Booking cancelled",
		zap.String("bookingId", booking.ID), zap.String("reason", reason))
	return s.refresh(booking.ID)
}

func validateCreate(req CreateRequest) error {
	if req.LawyerID == "" {
		return utils.InvalidInput("Lawyer id is required")
	}
	if !req.SessionType.Valid() {
		return utils.InvalidInput("Invalid session type")
	}
	if !req.DurationType.Valid() {
		return utils.InvalidInput("Invalid duration type")
	}
	if req.PreferredDate.IsZero() {
		return utils.InvalidInput("Preferred date is required")
	}
	if strings.TrimSpace(req.PreferredTime) == "" {
		return utils.InvalidInput("Preferred time is required")
	}
	desc := strings.TrimSpace(req.IssueDescription)
	if desc == "" {
		return utils.InvalidInput("Issue description is required")
	}
	if len(desc) > 2000 {
		return utils.InvalidInput("Issue description must be at most 2000 characters")
	}
	if len(strings.TrimSpace(req.ClientNotes)) > 500 {
		return utils.InvalidInput("Notes must be at most 500 characters")
	}
	return nil
}

// amountFor derives the booking price from the fee schedule.
func amountFor(fees models.Fees, duration models.DurationType) float64 {
	if duration == models.DurationHalfHour {
		return fees.PerHalfHour
	}
	return fees.PerHour
}
