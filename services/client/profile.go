package client

import (
	"strings"
	"time"

	clientRepo "lawlink/database/repository/clientprofile"
	userRepo "lawlink/database/repository/user"
	"lawlink/models"
	"lawlink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// UpdateRequest carries the owner-editable client profile fields. Nil
// means "leave unchanged".
type UpdateRequest struct {
	DateOfBirth        *time.Time
	Address            *models.Address
	PreferredLanguages []string
	LegalIssueType     *string
}

// ClientService manages the consumer-side profile. Creation happens in
// identity onboarding.
type ClientService interface {
	Get(caller *models.Caller) (*models.ClientDetail, error)
	Update(caller *models.Caller, req UpdateRequest) (*models.ClientDetail, error)
}

type DefaultClientService struct {
	Clients clientRepo.ClientRepository
	Users   userRepo.UserRepository
	Logger  *zap.Logger
}

// Get returns the caller's own profile with the user record expanded.
func (s *DefaultClientService) Get(caller *models.Caller) (*models.ClientDetail, error) {
	profile, err := s.owned(caller)
	if err != nil {
		return nil, err
	}
	return s.expand(profile)
}

// Update applies the owner-editable fields.
func (s *DefaultClientService) Update(caller *models.Caller, req UpdateRequest) (*models.ClientDetail, error) {
	profile, err := s.owned(caller)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.DateOfBirth != nil {
		if req.DateOfBirth.After(time.Now()) {
			return nil, utils.InvalidInput("Date of birth cannot be in the future")
		}
		set["dateOfBirth"] = *req.DateOfBirth
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.PreferredLanguages != nil {
		set["preferredLanguages"] = req.PreferredLanguages
	}
	if req.LegalIssueType != nil {
		set["legalIssueType"] = strings.TrimSpace(*req.LegalIssueType)
	}
	if len(set) == 0 {
		return nil, utils.InvalidInput("No updatable fields provided")
	}

	updated, err := s.Clients.UpdateFields(profile.ID, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Client profile not found")
	}
	s.Logger.Info("Client profile updated", zap.String("clientId", profile.ID))
	return s.expand(updated)
}

func (s *DefaultClientService) owned(caller *models.Caller) (*models.Client, error) {
	if caller.Role != models.RoleClient {
		return nil, utils.Forbidden("Operation requires client role")
	}
	profile, err := s.Clients.GetByUserID(caller.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.NotFound("Client profile not found")
	}
	return profile, nil
}

func (s *DefaultClientService) expand(profile *models.Client) (*models.ClientDetail, error) {
	detail := &models.ClientDetail{Client: *profile}
	user, err := s.Users.GetByID(profile.UserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		detail.User = user.Summary()
	}
	return detail, nil
}
