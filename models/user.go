package models

import "time"

// Role determines which profile entity a user owns and which
// operations they may invoke.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
)

// Valid reports whether r is one of the two marketplace roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleLawyer
}

// User is a platform account. It is created on first authenticated
// contact; the role is fixed during onboarding.
type User struct {
	ID                  string    `bson:"id" json:"id"`
	ExternalID          string    `bson:"externalId" json:"externalId"` // identity-provider subject
	Email               string    `bson:"email" json:"email"`
	FirstName           string    `bson:"firstName" json:"firstName"`
	LastName            string    `bson:"lastName" json:"lastName"`
	Role                Role      `bson:"role" json:"role"`
	Phone               string    `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImage        string    `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	OnboardingCompleted bool      `bson:"onboardingCompleted" json:"onboardingCompleted"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Caller is a resolved identity: the stable user id plus the role the
// user onboarded with. Core services take a Caller, never a raw token.
type Caller struct {
	UserID string
	Role   Role
}

// UserSummary is the reduced view embedded in expanded booking and
// review payloads.
type UserSummary struct {
	ID           string `bson:"id" json:"id"`
	FirstName    string `bson:"firstName" json:"firstName"`
	LastName     string `bson:"lastName" json:"lastName"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImage string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
}

// Summary returns the reduced view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
	}
}
