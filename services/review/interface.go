package review

import (
	bookingRepo "lawlink/database/repository/booking"
	lawyerRepo "lawlink/database/repository/lawyer"
	reviewRepo "lawlink/database/repository/review"
	userRepo "lawlink/database/repository/user"
	"lawlink/models"

	"go.uber.org/zap"
)

// SubmitRequest is a client's review of a completed booking.
type SubmitRequest struct {
	BookingID  string
	Rating     int
	ReviewText string
}

// LawyerReviews is one page of a lawyer's visible reviews plus the
// aggregate view a profile page renders.
type LawyerReviews struct {
	Reviews       []models.ReviewDetail     `json:"reviews"`
	Total         int64                     `json:"total"`
	Page          int                       `json:"page"`
	PageSize      int                       `json:"pageSize"`
	AverageRating float64                   `json:"averageRating"`
	TotalReviews  int                       `json:"totalReviews"`
	Distribution  models.RatingDistribution `json:"distribution"`
}

// ReviewService owns review submission and the lawyer's derived rating
// fields. The recompute after each submission is the only writer of
// averageRating/totalReviews.
type ReviewService interface {
	Submit(caller *models.Caller, req SubmitRequest) (*models.ReviewDetail, error)
	Respond(caller *models.Caller, reviewID, response string) (*models.ReviewDetail, error)
	ListForLawyer(lawyerID string, page, pageSize int) (*LawyerReviews, error)
	List(lawyerID string) ([]models.ReviewDetail, error)
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Reviews  reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Lawyers  lawyerRepo.LawyerRepository
	Users    userRepo.UserRepository
	Logger   *zap.Logger
}
