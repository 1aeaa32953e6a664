package userRepo

import "lawlink/models"

// UserRepository defines methods for user data access. Getters return
// (nil, nil) when no document matches.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByExternalID retrieves a user by the identity provider's subject.
	GetByExternalID(externalID string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// GetManyByIDs retrieves the users whose ids appear in ids.
	GetManyByIDs(ids []string) ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
}
