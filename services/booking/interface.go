package booking

import (
	"time"

	bookingRepo "lawlink/database/repository/booking"
	lawyerRepo "lawlink/database/repository/lawyer"
	userRepo "lawlink/database/repository/user"
	"lawlink/models"

	"go.uber.org/zap"
)

// CreateRequest is a client's booking request. The amount is never
// part of it; pricing is derived from the lawyer's fee schedule.
type CreateRequest struct {
	LawyerID         string
	SessionType      models.SessionType
	DurationType     models.DurationType
	PreferredDate    time.Time
	PreferredTime    string
	IssueDescription string
	ClientNotes      string
}

// ApproveRequest carries the lawyer's confirmation details.
type ApproveRequest struct {
	ConfirmedDateTime time.Time
	MeetingLink       string
	LawyerNotes       string
}

// NotesPatch carries the only booking fields either party may edit
// outside a transition. Nil means "leave unchanged".
type NotesPatch struct {
	ClientNotes *string
	LawyerNotes *string
	MeetingLink *string
}

// PaymentEnqueuer hands the payment-confirmation payload to the
// async outbox after a completion commits.
type PaymentEnqueuer interface {
	EnqueuePaymentConfirmation(payload models.PaymentConfirmPayload) error
}

// BookingService owns the booking state machine. Every operation takes
// a resolved Caller and fails atomically: a transition attempted from
// the wrong state or by a non-owner mutates nothing.
type BookingService interface {
	Create(caller *models.Caller, req CreateRequest) (*models.BookingDetail, error)
	Approve(caller *models.Caller, bookingID string, req ApproveRequest) (*models.BookingDetail, error)
	Reject(caller *models.Caller, bookingID, reason string) (*models.BookingDetail, error)
	Complete(caller *models.Caller, bookingID, sessionNotes string) (*models.BookingDetail, error)
	Cancel(caller *models.Caller, bookingID, reason string) (*models.BookingDetail, error)
	Get(caller *models.Caller, bookingID string) (*models.BookingDetail, error)
	List(caller *models.Caller, status models.BookingStatus) ([]models.BookingDetail, error)
	UpdateNotes(caller *models.Caller, bookingID string, patch NotesPatch) (*models.BookingDetail, error)
	CreatePaymentIntent(caller *models.Caller, bookingID string) (*models.PaymentConfirmation, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Lawyers  lawyerRepo.LawyerRepository
	Users    userRepo.UserRepository
	Payments PaymentEnqueuer
	Logger   *zap.Logger
}
