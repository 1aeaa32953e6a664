package models

import "time"

// Education is one entry in a lawyer's education history.
type Education struct {
	Degree           string `bson:"degree" json:"degree" binding:"required"`
	University       string `bson:"university" json:"university" binding:"required"`
	YearOfGraduation int    `bson:"yearOfGraduation" json:"yearOfGraduation" binding:"required"`
}

// Fees is a lawyer's fee schedule. Booking amounts are derived from it
// at creation time and frozen on the booking afterwards.
type Fees struct {
	PerHour     float64 `bson:"perHour" json:"perHour" binding:"min=0"`
	PerHalfHour float64 `bson:"perHalfHour" json:"perHalfHour" binding:"min=0"`
	Currency    string  `bson:"currency" json:"currency"`
}

// TimeRange is a start/end pair in "HH:MM" 24-hour form.
type TimeRange struct {
	StartTime string `bson:"startTime" json:"startTime" binding:"required"`
	EndTime   string `bson:"endTime" json:"endTime" binding:"required"`
}

// DayAvailability lists the time ranges a lawyer declares for one day
// of the week. The template is descriptive only; the booking engine
// does not cross-check it against existing bookings.
type DayAvailability struct {
	Day   string      `bson:"day" json:"day" binding:"required"`
	Slots []TimeRange `bson:"slots" json:"slots"`
}

// Lawyer is the provider-side profile, 1:1 with a User of RoleLawyer.
// AverageRating/TotalReviews are derived fields owned by the review
// aggregator; RatingVersion guards their read-aggregate-write cycle.
type Lawyer struct {
	ID                    string            `bson:"id" json:"id"`
	UserID                string            `bson:"userId" json:"userId"`
	ExternalID            string            `bson:"externalId" json:"-"`
	BarRegistrationNumber string            `bson:"barRegistrationNumber" json:"barRegistrationNumber"`
	YearsOfExperience     int               `bson:"yearsOfExperience" json:"yearsOfExperience"`
	Specializations       []string          `bson:"specializations" json:"specializations"`
	LanguagesSpoken       []string          `bson:"languagesSpoken" json:"languagesSpoken"`
	Education             []Education       `bson:"education" json:"education"`
	TotalCasesSolved      int               `bson:"totalCasesSolved" json:"totalCasesSolved"`
	SuccessRate           float64           `bson:"successRate" json:"successRate"`
	About                 string            `bson:"about" json:"about"`
	Fees                  Fees              `bson:"fees" json:"fees"`
	Availability          []DayAvailability `bson:"availability" json:"availability"`
	AverageRating         float64           `bson:"averageRating" json:"averageRating"`
	TotalReviews          int               `bson:"totalReviews" json:"totalReviews"`
	RatingVersion         int64             `bson:"ratingVersion" json:"-"`
	IsActive              bool              `bson:"isActive" json:"isActive"`
	IsVerified            bool              `bson:"isVerified" json:"isVerified"`
	CreatedAt             time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// LawyerDetail is a Lawyer with its user record expanded.
type LawyerDetail struct {
	Lawyer
	User UserSummary `json:"user"`
}

// LawyerSummary is the reduced lawyer view embedded in expanded
// booking and review payloads.
type LawyerSummary struct {
	ID              string      `bson:"id" json:"id"`
	User            UserSummary `bson:"user" json:"user"`
	Specializations []string    `bson:"specializations" json:"specializations"`
	Fees            Fees        `bson:"fees" json:"fees"`
	AverageRating   float64     `bson:"averageRating" json:"averageRating"`
	TotalReviews    int         `bson:"totalReviews" json:"totalReviews"`
}

// Summary returns the reduced view of l with the given user snapshot.
func (l *Lawyer) Summary(user UserSummary) LawyerSummary {
	return LawyerSummary{
		ID:              l.ID,
		User:            user,
		Specializations: l.Specializations,
		Fees:            l.Fees,
		AverageRating:   l.AverageRating,
		TotalReviews:    l.TotalReviews,
	}
}

// DaysOfWeek are the accepted values for DayAvailability.Day.
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
