package lawyerRepo

import (
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// SearchFilter narrows and pages a lawyer catalog search. Zero values
// mean "no constraint".
type SearchFilter struct {
	Specialization string
	Language       string
	MinRating      float64
	MaxFeePerHour  float64
	Page           int
	PageSize       int
}

// LawyerRepository defines data access for lawyer profiles. Getters
// return (nil, nil) when no document matches.
type LawyerRepository interface {
	// Create inserts a new lawyer profile. Duplicate userId, externalId
	// or bar registration number surfaces as an AlreadyExists error.
	Create(lawyer *models.Lawyer) error
	// GetByID retrieves a lawyer by its unique ID.
	GetByID(id string) (*models.Lawyer, error)
	// GetByUserID retrieves the lawyer owned by the given user.
	GetByUserID(userID string) (*models.Lawyer, error)
	// UpdateFields applies a $set patch and returns the updated profile.
	UpdateFields(id string, fields bson.M) (*models.Lawyer, error)
	// Search returns one page of active lawyers matching the filter,
	// sorted by rating then review count, plus the total match count.
	Search(filter SearchFilter) ([]models.Lawyer, int64, error)
	// Deactivate soft-deletes the profile by clearing isActive.
	Deactivate(id string) error
	// IncrementCasesSolved bumps totalCasesSolved by one.
	IncrementCasesSolved(id string) error
	// UpdateRating writes the derived rating fields iff the profile's
	// ratingVersion still equals expectedVersion. Returns false when
	// the version moved and the caller must re-aggregate.
	UpdateRating(id string, averageRating float64, totalReviews int, expectedVersion int64) (bool, error)
}
