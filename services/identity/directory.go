package identity

import (
	"lawlink/models"
	"lawlink/utils"
)

// ResolveCaller maps the identity provider's subject to a resolved
// (userId, role) pair. Core services never see the wire identity.
func (s *DefaultIdentityService) ResolveCaller(externalID string) (*models.Caller, error) {
	if externalID == "" {
		return nil, utils.Unauthenticated("Unauthorized")
	}

	user, err := s.Users.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.OnboardingCompleted {
		// Authenticated but not onboarded: the caller is redirected to
		// onboarding, this is not an authorization failure.
		return nil, utils.NotFound("User not found")
	}

	return &models.Caller{UserID: user.ID, Role: user.Role}, nil
}

// RequireRole fails with Forbidden unless the caller holds role.
func (s *DefaultIdentityService) RequireRole(caller *models.Caller, role models.Role) error {
	if caller == nil {
		return utils.Unauthenticated("Unauthorized")
	}
	if caller.Role != role {
		return utils.Forbidden("Operation requires " + string(role) + " role")
	}
	return nil
}

// CheckRole reports role and onboarding state for dashboards and
// onboarding redirects.
func (s *DefaultIdentityService) CheckRole(externalID string) (*RoleStatus, error) {
	user, err := s.Users.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}
	return &RoleStatus{
		UserID:              user.ID,
		Role:                user.Role,
		OnboardingCompleted: user.OnboardingCompleted,
	}, nil
}

// GetMe returns the user record with its role-specific profile.
func (s *DefaultIdentityService) GetMe(externalID string) (*Me, error) {
	user, err := s.Users.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}

	me := &Me{User: user}
	switch user.Role {
	case models.RoleLawyer:
		lawyer, err := s.Lawyers.GetByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		if lawyer != nil {
			me.Profile = lawyer
		}
	case models.RoleClient:
		client, err := s.Clients.GetByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		if client != nil {
			me.Profile = client
		}
	}
	return me, nil
}
