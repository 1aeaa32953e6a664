package review

import (
	"math"
	"strings"
	"time"

	"lawlink/models"
	"lawlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ratingRetries bounds the compare-and-swap loop around the rating
// recompute. Losing the race this many times in a row means sustained
// concurrent submissions; the last aggregation still lands eventually
// via the next submission.
const ratingRetries = 3

// Submit records a client's review of their completed booking and
// recomputes the lawyer's derived rating. The unique booking index
// makes the one-review-per-booking rule hold under concurrency.
func (s *DefaultReviewService) Submit(caller *models.Caller, req SubmitRequest) (*models.ReviewDetail, error) {
	if caller.Role != models.RoleClient {
		return nil, utils.Forbidden("Only clients can submit reviews")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, utils.InvalidInput("Rating must be between 1 and 5")
	}
	text := strings.TrimSpace(req.ReviewText)
	if len(text) > 1000 {
		return nil, utils.InvalidInput("Review text must be at most 1000 characters")
	}

	booking, err := s.Bookings.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NotFound("Booking not found")
	}
	if booking.ClientID != caller.UserID {
		return nil, utils.Forbidden("Booking belongs to another client")
	}
	if booking.Status != models.BookingCompleted {
		return nil, utils.InvalidInput("Only completed bookings can be reviewed")
	}

	now := time.Now()
	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		LawyerID:   booking.LawyerID,
		Rating:     req.Rating,
		ReviewText: text,
		IsVisible:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Reviews.Create(review); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(booking.LawyerID); err != nil {
		// The review is committed; a failed recompute leaves the derived
		// fields one submission stale until the next one runs.
		s.Logger.Error("Rating recompute failed",
			zap.String("lawyerId", booking.LawyerID), zap.Error(err))
	}

	s.Logger.Info("Review submitted",
		zap.String("reviewId", review.ID),
		zap.String("bookingId", booking.ID),
		zap.Int("rating", review.Rating))
	return s.expand(review)
}

// Respond stores the lawyer's one-time response to a review on their
// profile.
func (s *DefaultReviewService) Respond(caller *models.Caller, reviewID, response string) (*models.ReviewDetail, error) {
	if caller.Role != models.RoleLawyer {
		return nil, utils.Forbidden("Only lawyers can respond to reviews")
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, utils.InvalidInput("Response text is required")
	}
	if len(response) > 500 {
		return nil, utils.InvalidInput("Response must be at most 500 characters")
	}

	lawyer, err := s.Lawyers.GetByUserID(caller.UserID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.Forbidden("Lawyer profile not found")
	}

	review, err := s.Reviews.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, utils.NotFound("Review not found")
	}
	if review.LawyerID != lawyer.ID {
		return nil, utils.Forbidden("Review belongs to another lawyer")
	}

	matched, err := s.Reviews.SetResponse(review.ID, response)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.AlreadyResponded("Review already has a response")
	}

	updated, err := s.Reviews.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Review not found")
	}
	s.Logger.Info("Review response recorded", zap.String("reviewId", review.ID))
	return s.expand(updated)
}

// recomputeRating re-aggregates the lawyer's visible reviews and
// writes the result guarded by the rating version. A lost race means
// another submission recomputed concurrently; re-read and try again.
func (s *DefaultReviewService) recomputeRating(lawyerID string) error {
	for attempt := 0; attempt < ratingRetries; attempt++ {
		lawyer, err := s.Lawyers.GetByID(lawyerID)
		if err != nil {
			return err
		}
		if lawyer == nil {
			return utils.NotFound("Lawyer not found")
		}

		reviews, err := s.Reviews.AllVisibleByLawyer(lawyerID)
		if err != nil {
			return err
		}

		average, total := aggregate(reviews)
		ok, err := s.Lawyers.UpdateRating(lawyerID, average, total, lawyer.RatingVersion)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return utils.StoreUnavailable("Rating recompute kept losing the version race")
}

// aggregate computes the mean of visible ratings rounded to two
// decimals, and the visible count. No reviews means 0 / 0.
func aggregate(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*100) / 100, len(reviews)
}
