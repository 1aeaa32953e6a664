package lawyer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	lawyerRepo "lawlink/database/repository/lawyer"
	"lawlink/models"
	"lawlink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const searchCacheTTL = 60 * time.Second

// Get returns one lawyer profile with its user record expanded.
// Deactivated profiles stay readable; only search hides them.
func (s *DefaultLawyerService) Get(lawyerID string) (*models.LawyerDetail, error) {
	lawyer, err := s.Lawyers.GetByID(lawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	return s.expand(lawyer)
}

// Update applies the owner-editable fields to the caller's own profile.
func (s *DefaultLawyerService) Update(caller *models.Caller, lawyerID string, req UpdateRequest) (*models.LawyerDetail, error) {
	lawyer, err := s.owned(caller, lawyerID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.YearsOfExperience != nil {
		if *req.YearsOfExperience < 0 {
			return nil, utils.InvalidInput("Years of experience cannot be negative")
		}
		set["yearsOfExperience"] = *req.YearsOfExperience
	}
	if req.Specializations != nil {
		set["specializations"] = req.Specializations
	}
	if req.LanguagesSpoken != nil {
		set["languagesSpoken"] = req.LanguagesSpoken
	}
	if req.Education != nil {
		set["education"] = req.Education
	}
	if req.About != nil {
		set["about"] = strings.TrimSpace(*req.About)
	}
	if req.Fees != nil {
		if req.Fees.PerHour < 0 || req.Fees.PerHalfHour < 0 {
			return nil, utils.InvalidInput("Fees cannot be negative")
		}
		if req.Fees.Currency == "" {
			req.Fees.Currency = lawyer.Fees.Currency
		}
		set["fees"] = *req.Fees
	}
	if req.SuccessRate != nil {
		if *req.SuccessRate < 0 || *req.SuccessRate > 100 {
			return nil, utils.InvalidInput("Success rate must be between 0 and 100")
		}
		set["successRate"] = *req.SuccessRate
	}
	if len(set) == 0 {
		return nil, utils.InvalidInput("No updatable fields provided")
	}

	updated, err := s.Lawyers.UpdateFields(lawyer.ID, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	s.Logger.Info("Lawyer profile updated", zap.String("lawyerId", lawyer.ID))
	return s.expand(updated)
}

// Search returns one catalog page. Results are briefly cached; fee and
// rating changes show up after the TTL expires.
func (s *DefaultLawyerService) Search(req SearchRequest) (*SearchResult, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 50 {
		req.PageSize = 12
	}

	cacheKey := searchCacheKey(req)
	if s.Cache != nil {
		if cached := s.cachedSearch(cacheKey); cached != nil {
			return cached, nil
		}
	}

	filter := lawyerRepo.SearchFilter{
		Specialization: strings.TrimSpace(req.Specialization),
		Language:       strings.TrimSpace(req.Language),
		MinRating:      req.MinRating,
		MaxFeePerHour:  req.MaxFeePerHour,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
	lawyers, total, err := s.Lawyers.Search(filter)
	if err != nil {
		return nil, err
	}

	details := make([]models.LawyerDetail, 0, len(lawyers))
	for i := range lawyers {
		detail, err := s.expand(&lawyers[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	// Name matching needs the joined user record, so it runs on the
	// fetched page rather than in the store query.
	if q := strings.ToLower(strings.TrimSpace(req.NameQuery)); q != "" {
		filtered := details[:0]
		for _, d := range details {
			name := strings.ToLower(d.User.FirstName + " " + d.User.LastName)
			if strings.Contains(name, q) {
				filtered = append(filtered, d)
			}
		}
		details = filtered
		total = int64(len(details))
	}

	result := &SearchResult{
		Lawyers:  details,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if s.Cache != nil {
		s.cacheSearch(cacheKey, result)
	}
	return result, nil
}

// Deactivate soft-deletes the caller's own profile. Existing bookings
// and reviews are untouched; the profile just stops matching searches.
func (s *DefaultLawyerService) Deactivate(caller *models.Caller, lawyerID string) error {
	lawyer, err := s.owned(caller, lawyerID)
	if err != nil {
		return err
	}
	if err := s.Lawyers.Deactivate(lawyer.ID); err != nil {
		return err
	}
	s.Logger.Info("Lawyer profile deactivated", zap.String("lawyerId", lawyer.ID))
	return nil
}

// owned loads the profile and verifies the caller owns it.
func (s *DefaultLawyerService) owned(caller *models.Caller, lawyerID string) (*models.Lawyer, error) {
	if caller.Role != models.RoleLawyer {
		return nil, utils.Forbidden("Operation requires lawyer role")
	}
	lawyer, err := s.Lawyers.GetByID(lawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	if lawyer.UserID != caller.UserID {
		return nil, utils.Forbidden("Profile belongs to another lawyer")
	}
	return lawyer, nil
}

func (s *DefaultLawyerService) expand(lawyer *models.Lawyer) (*models.LawyerDetail, error) {
	detail := &models.LawyerDetail{Lawyer: *lawyer}
	user, err := s.Users.GetByID(lawyer.UserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		detail.User = user.Summary()
	} else {
		s.Logger.Warn("Lawyer references missing user",
			zap.String("lawyerId", lawyer.ID), zap.String("userId", lawyer.UserID))
	}
	return detail, nil
}

func searchCacheKey(req SearchRequest) string {
	return fmt.Sprintf("lawyers:search:%s:%s:%.2f:%.2f:%s:%d:%d",
		strings.ToLower(req.Specialization), strings.ToLower(req.Language),
		req.MinRating, req.MaxFeePerHour,
		strings.ToLower(strings.TrimSpace(req.NameQuery)), req.Page, req.PageSize)
}

func (s *DefaultLawyerService) cachedSearch(key string) *SearchResult {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *DefaultLawyerService) cacheSearch(key string, result *SearchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Set(ctx, key, data, searchCacheTTL).Err(); err != nil {
		s.Logger.Warn("Failed to cache search result", zap.Error(err))
	}
}
