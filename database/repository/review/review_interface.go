package reviewRepo

import "lawlink/models"

// ReviewRepository defines data access for reviews. Getters return
// (nil, nil) when no document matches.
type ReviewRepository interface {
	// Create inserts a new review. A second review for the same
	// booking violates the unique index and surfaces AlreadyExists.
	Create(review *models.Review) error
	// GetByID retrieves a review by its unique ID.
	GetByID(id string) (*models.Review, error)
	// GetByBookingID retrieves the review referencing a booking.
	GetByBookingID(bookingID string) (*models.Review, error)
	// ListVisibleByLawyer returns one newest-first page of visible
	// reviews for the lawyer plus the total visible count.
	ListVisibleByLawyer(lawyerID string, page, pageSize int) ([]models.Review, int64, error)
	// AllVisibleByLawyer returns every visible review for the lawyer,
	// for rating aggregation.
	AllVisibleByLawyer(lawyerID string) ([]models.Review, error)
	// ListVisible returns visible reviews newest-first, optionally
	// restricted to one lawyer.
	ListVisible(lawyerID string) ([]models.Review, error)
	// SetResponse stores the lawyer's response iff none exists yet.
	// Returns false when a response was already recorded.
	SetResponse(id, response string) (bool, error)
}
