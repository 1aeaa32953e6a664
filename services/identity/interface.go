package identity

import (
	clientRepo "lawlink/database/repository/clientprofile"
	lawyerRepo "lawlink/database/repository/lawyer"
	userRepo "lawlink/database/repository/user"
	"lawlink/models"

	"go.uber.org/zap"
)

// OnboardRequest finalizes a freshly authenticated account: it fixes
// the role and creates the matching profile in one step.
type OnboardRequest struct {
	Role         models.Role `json:"role" binding:"required"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Phone        string      `json:"phone"`
	ProfileImage string      `json:"profileImage"`

	// Lawyer-only fields.
	BarRegistrationNumber string                   `json:"barRegistrationNumber"`
	YearsOfExperience     int                      `json:"yearsOfExperience"`
	Specializations       []string                 `json:"specializations"`
	LanguagesSpoken       []string                 `json:"languagesSpoken"`
	Education             []models.Education      `json:"education"`
	About                 string                   `json:"about"`
	Fees                  models.Fees             `json:"fees"`
	Availability          []models.DayAvailability `json:"availability"`

	// Client-only fields.
	PreferredLanguages []string        `json:"preferredLanguages"`
	LegalIssueType     string          `json:"legalIssueType"`
	Address            *models.Address `json:"address"`
}

// RoleStatus answers "who is this caller and have they onboarded".
type RoleStatus struct {
	UserID              string      `json:"userId"`
	Role                models.Role `json:"role"`
	OnboardingCompleted bool        `json:"onboardingCompleted"`
}

// Me bundles the user record with its role-specific profile.
type Me struct {
	User    *models.User `json:"user"`
	Profile interface{}  `json:"profile"`
}

// IdentityService resolves authenticated callers to marketplace
// identities and gates operations by role.
type IdentityService interface {
	// ResolveCaller maps the identity provider's subject to a Caller.
	// A caller who has authenticated but not completed onboarding gets
	// NotFound; upstream layers redirect to onboarding.
	ResolveCaller(externalID string) (*models.Caller, error)
	// RequireRole fails with Forbidden unless the caller holds role.
	RequireRole(caller *models.Caller, role models.Role) error
	// Onboard fixes the account's role and creates its profile.
	Onboard(externalID string, req OnboardRequest) (*models.User, error)
	// CheckRole reports role and onboarding state without requiring a
	// completed onboarding.
	CheckRole(externalID string) (*RoleStatus, error)
	// GetMe returns the user with its role-specific profile expanded.
	GetMe(externalID string) (*Me, error)
}

// DefaultIdentityService is the production implementation.
type DefaultIdentityService struct {
	Users   userRepo.UserRepository
	Lawyers lawyerRepo.LawyerRepository
	Clients clientRepo.ClientRepository
	Logger  *zap.Logger
}
