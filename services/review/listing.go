package review

import (
	"lawlink/models"
	"lawlink/utils"
)

// ListForLawyer returns one page of a lawyer's visible reviews with
// the aggregate rating and star histogram a profile page renders.
func (s *DefaultReviewService) ListForLawyer(lawyerID string, page, pageSize int) (*LawyerReviews, error) {
	lawyer, err := s.Lawyers.GetByID(lawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.NotFound("Lawyer not found")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	reviews, total, err := s.Reviews.ListVisibleByLawyer(lawyerID, page, pageSize)
	if err != nil {
		return nil, err
	}

	// The histogram spans all visible reviews, not just this page.
	all, err := s.Reviews.AllVisibleByLawyer(lawyerID)
	if err != nil {
		return nil, err
	}
	distribution := models.RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range all {
		distribution[r.Rating]++
	}

	details, err := s.expandMany(reviews)
	if err != nil {
		return nil, err
	}
	return &LawyerReviews{
		Reviews:       details,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		AverageRating: lawyer.AverageRating,
		TotalReviews:  lawyer.TotalReviews,
		Distribution:  distribution,
	}, nil
}

// List returns visible reviews newest-first, optionally restricted to
// one lawyer.
func (s *DefaultReviewService) List(lawyerID string) ([]models.ReviewDetail, error) {
	reviews, err := s.Reviews.ListVisible(lawyerID)
	if err != nil {
		return nil, err
	}
	return s.expandMany(reviews)
}

func (s *DefaultReviewService) expand(r *models.Review) (*models.ReviewDetail, error) {
	details, err := s.expandMany([]models.Review{*r})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// expandMany joins reviews with their client snapshots in one batched
// user lookup.
func (s *DefaultReviewService) expandMany(reviews []models.Review) ([]models.ReviewDetail, error) {
	ids := make([]string, 0, len(reviews))
	seen := make(map[string]bool, len(reviews))
	for _, r := range reviews {
		if !seen[r.ClientID] {
			seen[r.ClientID] = true
			ids = append(ids, r.ClientID)
		}
	}

	users := make(map[string]models.UserSummary, len(ids))
	if len(ids) > 0 {
		fetched, err := s.Users.GetManyByIDs(ids)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			users[fetched[i].ID] = fetched[i].Summary()
		}
	}

	details := make([]models.ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		details = append(details, models.ReviewDetail{Review: r, Client: users[r.ClientID]})
	}
	return details, nil
}
