package lawyer

import (
	lawyerRepo "lawlink/database/repository/lawyer"
	userRepo "lawlink/database/repository/user"
	"lawlink/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SearchRequest is a catalog query. NameQuery matches against the
// owning user's first/last name; the remaining filters are pushed down
// to the store.
type SearchRequest struct {
	Specialization string
	Language       string
	MinRating      float64
	MaxFeePerHour  float64
	NameQuery      string
	Page           int
	PageSize       int
}

// SearchResult is one page of the catalog.
type SearchResult struct {
	Lawyers  []models.LawyerDetail `json:"lawyers"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// UpdateRequest carries the owner-editable profile fields. Nil means
// "leave unchanged". Derived rating fields and the bar registration
// number are not editable.
type UpdateRequest struct {
	YearsOfExperience *int
	Specializations   []string
	LanguagesSpoken   []string
	Education         []models.Education
	About             *string
	Fees              *models.Fees
	SuccessRate       *float64
}

// LawyerService is the provider catalog. Profile creation happens in
// identity onboarding; everything after that lives here.
type LawyerService interface {
	Get(lawyerID string) (*models.LawyerDetail, error)
	Update(caller *models.Caller, lawyerID string, req UpdateRequest) (*models.LawyerDetail, error)
	Search(req SearchRequest) (*SearchResult, error)
	Deactivate(caller *models.Caller, lawyerID string) error
	GetAvailability(lawyerID string) ([]models.DayAvailability, error)
	SetAvailability(caller *models.Caller, lawyerID string, availability []models.DayAvailability) ([]models.DayAvailability, error)
}

// DefaultLawyerService is the production implementation. Cache is
// optional; a nil client disables search caching.
type DefaultLawyerService struct {
	Lawyers lawyerRepo.LawyerRepository
	Users   userRepo.UserRepository
	Cache   *redis.Client
	Logger  *zap.Logger
}
