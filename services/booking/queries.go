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

// Get returns one booking, expanded. Only the two parties on the
// booking may read it.
func (s *DefaultBookingService) Get(caller *models.Caller, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.ownedByEither(caller, bookingID)
	if err != nil {
		return nil, err
	}
	return s.expand(booking)
}

// List returns the caller's bookings newest-first: a client sees the
// bookings they requested, a lawyer the ones addressed to their
// profile. An empty status means all statuses.
func (s *DefaultBookingService) List(caller *models.Caller, status models.BookingStatus) ([]models.BookingDetail, error) {
	if status != "" && !status.Valid() {
		return nil, utils.InvalidInput("Invalid booking status")
	}

	var (
		bookings []models.Booking
		err      error
	)
	switch caller.Role {
	case models.RoleClient:
		bookings, err = s.Bookings.ListByClient(caller.UserID, status)
	case models.RoleLawyer:
		lawyer, lerr := s.Lawyers.GetByUserID(caller.UserID)
		if lerr != nil {
			return nil, lerr
		}
		if lawyer == nil {
			return nil, utils.Forbidden("Lawyer profile not found")
		}
		bookings, err = s.Bookings.ListByLawyer(lawyer.ID, status)
	default:
		return nil, utils.Forbidden("Unknown role")
	}
	if err != nil {
		return nil, err
	}
	return s.expandMany(bookings)
}

// UpdateNotes applies the allow-listed non-transition edits. Clients
// may change their own notes; lawyers their notes and the meeting link.
// Terminal bookings stay editable: parties annotate past sessions.
func (s *DefaultBookingService) UpdateNotes(caller *models.Caller, bookingID string, patch NotesPatch) (*models.BookingDetail, error) {
	booking, err := s.ownedByEither(caller, bookingID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	switch caller.Role {
	case models.RoleClient:
		if patch.LawyerNotes != nil || patch.MeetingLink != nil {
			return nil, utils.Forbidden("Clients may only update their own notes")
		}
		if patch.ClientNotes != nil {
			set["clientNotes"] = strings.TrimSpace(*patch.ClientNotes)
		}
	case models.RoleLawyer:
		if patch.ClientNotes != nil {
			return nil, utils.Forbidden("Lawyers may not update client notes")
		}
		if patch.LawyerNotes != nil {
			set["lawyerNotes"] = strings.TrimSpace(*patch.LawyerNotes)
		}
		if patch.MeetingLink != nil {
			set["meetingLink"] = strings.TrimSpace(*patch.MeetingLink)
		}
	}
	if len(set) == 0 {
		return nil, utils.InvalidInput("No updatable fields provided")
	}

	updated, err := s.Bookings.UpdateFields(booking.ID, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Booking not found")
	}
	return s.expand(updated)
}

// CreatePaymentIntent mints a fake payment intent for the owning client
// and marks the booking paid. No gateway is involved.
func (s *DefaultBookingService) CreatePaymentIntent(caller *models.Caller, bookingID string) (*models.PaymentConfirmation, error) {
	if caller.Role != models.RoleClient {
		return nil, utils.Forbidden("Only clients can pay for bookings")
	}
	booking, err := s.ownedByEither(caller, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, utils.InvalidInput("Booking is already paid")
	}
	if booking.Status.Terminal() && booking.Status != models.BookingCompleted {
		return nil, utils.InvalidInput("Cannot pay for a cancelled or rejected booking")
	}

	intentID := "pi_fake_" + uuid.New().String()
	_, err = s.Bookings.UpdateFields(booking.ID, bson.M{
		"paymentIntentId": intentID,
		"paymentStatus":   models.PaymentPaid,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Payment intent created",
		zap.String("bookingId", booking.ID), zap.String("paymentIntentId", intentID))
	return &models.PaymentConfirmation{
		PaymentIntentID: intentID,
		BookingID:       booking.ID,
		Amount:          booking.Amount,
		Currency:        booking.Currency,
		Status:          "succeeded",
		ConfirmedAt:     time.Now(),
	}, nil
}

// ownedByLawyer loads the booking and verifies the caller is the
// lawyer it is addressed to.
func (s *DefaultBookingService) ownedByLawyer(caller *models.Caller, bookingID string) (*models.Booking, *models.Lawyer, error) {
	if caller.Role != models.RoleLawyer {
		return nil, nil, utils.Forbidden("Operation requires lawyer role")
	}
	lawyer, err := s.Lawyers.GetByUserID(caller.UserID)
	if err != nil {
		return nil, nil, err
	}
	if lawyer == nil {
		return nil, nil, utils.Forbidden("Lawyer profile not found")
	}
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, utils.NotFound("Booking not found")
	}
	if booking.LawyerID != lawyer.ID {
		return nil, nil, utils.Forbidden("Booking belongs to another lawyer")
	}
	return booking, lawyer, nil
}

// ownedByEither loads the booking and verifies the caller is one of
// its two parties.
func (s *DefaultBookingService) ownedByEither(caller *models.Caller, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NotFound("Booking not found")
	}

	switch caller.Role {
	case models.RoleClient:
		if booking.ClientID != caller.UserID {
			return nil, utils.Forbidden("Booking belongs to another client")
		}
	case models.RoleLawyer:
		lawyer, err := s.Lawyers.GetByUserID(caller.UserID)
		if err != nil {
			return nil, err
		}
		if lawyer == nil || booking.LawyerID != lawyer.ID {
			return nil, utils.Forbidden("Booking belongs to another lawyer")
		}
	default:
		return nil, utils.Forbidden("Unknown role")
	}
	return booking, nil
}

// refresh re-reads a booking after a transition and expands it.
func (s *DefaultBookingService) refresh(bookingID string) (*models.BookingDetail, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NotFound("Booking not found")
	}
	return s.expand(booking)
}
