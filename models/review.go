package models

import "time"

// Review is a client's one-per-booking rating of a completed session.
// LawyerResponse is settable exactly once by the owning lawyer.
type Review struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"bookingId" json:"bookingId"`
	ClientID  string `bson:"clientId" json:"clientId"`
	LawyerID  string `bson:"lawyerId" json:"lawyerId"`

	Rating     int    `bson:"rating" json:"rating"` // 1-5
	ReviewText string `bson:"reviewText" json:"reviewText"`

	LawyerResponse string     `bson:"lawyerResponse,omitempty" json:"lawyerResponse,omitempty"`
	RespondedAt    *time.Time `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`

	IsVisible bool `bson:"isVisible" json:"isVisible"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ReviewDetail is a Review with the reviewing client expanded.
type ReviewDetail struct {
	Review
	Client UserSummary `json:"client"`
}

// RatingDistribution counts visible reviews per star value.
type RatingDistribution map[int]int
