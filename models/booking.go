package models

import "time"

// BookingStatus is the booking state machine value. Transitions:
// pending -> approved -> completed, pending -> rejected, and
// {pending, approved} -> cancelled. Completed, rejected and cancelled
// are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the fake payment lifecycle on a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// SessionType is the kind of consultation requested.
type SessionType string

const (
	SessionConsultation SessionType = "consultation"
	SessionFollowUp     SessionType = "follow-up"
	SessionLegalAdvice  SessionType = "legal-advice"
	SessionCaseReview   SessionType = "case-review"
)

func (s SessionType) Valid() bool {
	switch s {
	case SessionConsultation, SessionFollowUp, SessionLegalAdvice, SessionCaseReview:
		return true
	}
	return false
}

// DurationType selects which fee the booking amount is derived from.
type DurationType string

const (
	DurationHalfHour DurationType = "half-hour"
	DurationFullHour DurationType = "full-hour"
)

func (d DurationType) Valid() bool {
	return d == DurationHalfHour || d == DurationFullHour
}

// Booking is a requested/confirmed consultation between a client and a
// lawyer. ClientID, LawyerID, Amount and Currency are immutable after
// creation; status moves only through the engine's transitions, each of
// which stamps exactly one of the transition timestamps. Bookings are
// never hard-deleted.
type Booking struct {
	ID       string `bson:"id" json:"id"`
	ClientID string `bson:"clientId" json:"clientId"`
	LawyerID string `bson:"lawyerId" json:"lawyerId"`

	SessionType  SessionType  `bson:"sessionType" json:"sessionType"`
	DurationType DurationType `bson:"durationType" json:"durationType"`

	PreferredDate     time.Time  `bson:"preferredDate" json:"preferredDate"`
	PreferredTime     string     `bson:"preferredTime" json:"preferredTime"` // "14:00"
	ConfirmedDateTime *time.Time `bson:"confirmedDateTime,omitempty" json:"confirmedDateTime,omitempty"`

	Status BookingStatus `bson:"status" json:"status"`

	IssueDescription string `bson:"issueDescription" json:"issueDescription"`
	ClientNotes      string `bson:"clientNotes,omitempty" json:"clientNotes,omitempty"`
	LawyerNotes      string `bson:"lawyerNotes,omitempty" json:"lawyerNotes,omitempty"`

	Amount          float64       `bson:"amount" json:"amount"`
	Currency        string        `bson:"currency" json:"currency"`
	PaymentStatus   PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string        `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`

	MeetingLink string `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`

	RequestedAt        time.Time  `bson:"requestedAt" json:"requestedAt"`
	ApprovedAt         *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectedAt         *time.Time `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingDetail is a Booking with both parties expanded, so API
// consumers never need follow-up lookups. Plain Booking carries ids
// only; BookingDetail is the declared expanded variant.
type BookingDetail struct {
	Booking
	Client UserSummary   `json:"client"`
	Lawyer LawyerSummary `json:"lawyer"`
}
