package clientRepo

import (
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ClientRepository defines data access for client profiles. Getters
// return (nil, nil) when no document matches.
type ClientRepository interface {
	// Create inserts a new client profile. Duplicate userId or
	// externalId surfaces as an AlreadyExists error.
	Create(client *models.Client) error
	// GetByID retrieves a client profile by its unique ID.
	GetByID(id string) (*models.Client, error)
	// GetByUserID retrieves the profile owned by the given user.
	GetByUserID(userID string) (*models.Client, error)
	// UpdateFields applies a $set patch and returns the updated profile.
	UpdateFields(id string, fields bson.M) (*models.Client, error)
}
