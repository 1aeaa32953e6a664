package bookingRepo

import (
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepository defines data access for bookings. Getters return
// (nil, nil) when no document matches. Bookings are never deleted;
// every status change goes through Transition.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// ListByClient returns the client's bookings newest-first,
	// optionally filtered by status.
	ListByClient(clientID string, status models.BookingStatus) ([]models.Booking, error)
	// ListByLawyer returns the lawyer's bookings newest-first,
	// optionally filtered by status.
	ListByLawyer(lawyerID string, status models.BookingStatus) ([]models.Booking, error)
	// Transition applies the $set patch iff the booking's current
	// status is one of from. The conditional write is what keeps a
	// transition atomic: either every field lands or none does.
	// Returns false when no document matched (wrong state or gone).
	Transition(id string, from []models.BookingStatus, set bson.M) (bool, error)
	// UpdateFields applies a non-transition $set patch (notes,
	// meeting link, payment intent bookkeeping).
	UpdateFields(id string, fields bson.M) (*models.Booking, error)
}
