package identity

import (
	"strings"

	"lawlink/models"
	"lawlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Onboard creates the user record on first contact if needed, fixes
// its role once, and creates the role-specific profile. Running it a
// second time fails: the role is immutable after onboarding.
func (s *DefaultIdentityService) Onboard(externalID string, req OnboardRequest) (*models.User, error) {
	if externalID == "" {
		return nil, utils.Unauthenticated("Unauthorized")
	}
	if !req.Role.Valid() {
		return nil, utils.InvalidInput("Role must be 'client' or 'lawyer'")
	}

	user, err := s.Users.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		if strings.TrimSpace(req.Email) == "" {
			return nil, utils.InvalidInput("Email is required")
		}
		user = &models.User{
			ID:           uuid.New().String(),
			ExternalID:   externalID,
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Role:         req.Role,
			ProfileImage: req.ProfileImage,
		}
		if err := s.Users.Create(user); err != nil {
			return nil, err
		}
	}

	if user.OnboardingCompleted {
		return nil, utils.AlreadyExists("Onboarding already completed")
	}

	user.Role = req.Role
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.OnboardingCompleted = true
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}

	switch req.Role {
	case models.RoleLawyer:
		if err := s.createLawyerProfile(user, req); err != nil {
			return nil, err
		}
	case models.RoleClient:
		if err := s.createClientProfile(user, req); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("onboarding completed",
		zap.String("userId", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *DefaultIdentityService) createLawyerProfile(user *models.User, req OnboardRequest) error {
	if strings.TrimSpace(req.BarRegistrationNumber) == "" {
		return utils.InvalidInput("Bar registration number is required")
	}

	lawyer := &models.Lawyer{
		ID:                    uuid.New().String(),
		UserID:                user.ID,
		ExternalID:            user.ExternalID,
		BarRegistrationNumber: strings.TrimSpace(req.BarRegistrationNumber),
		YearsOfExperience:     req.YearsOfExperience,
		Specializations:       req.Specializations,
		LanguagesSpoken:       req.LanguagesSpoken,
		Education:             req.Education,
		About:                 req.About,
		Fees:                  req.Fees,
		Availability:          req.Availability,
		IsActive:              true,
	}
	if lawyer.Fees.Currency == "" {
		lawyer.Fees.Currency = "INR"
	}
	return s.Lawyers.Create(lawyer)
}

func (s *DefaultIdentityService) createClientProfile(user *models.User, req OnboardRequest) error {
	client := &models.Client{
		ID:                 uuid.New().String(),
		UserID:             user.ID,
		ExternalID:         user.ExternalID,
		PreferredLanguages: req.PreferredLanguages,
		LegalIssueType:     req.LegalIssueType,
		Address:            req.Address,
	}
	return s.Clients.Create(client)
}
