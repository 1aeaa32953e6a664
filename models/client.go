package models

import "time"

// Address is a client's optional postal address.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Client is the consumer-side profile, 1:1 with a User of RoleClient.
type Client struct {
	ID                 string     `bson:"id" json:"id"`
	UserID             string     `bson:"userId" json:"userId"`
	ExternalID         string     `bson:"externalId" json:"-"`
	DateOfBirth        *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Address            *Address   `bson:"address,omitempty" json:"address,omitempty"`
	PreferredLanguages []string   `bson:"preferredLanguages" json:"preferredLanguages"`
	LegalIssueType     string     `bson:"legalIssueType,omitempty" json:"legalIssueType,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ClientDetail is a Client with its user record expanded.
type ClientDetail struct {
	Client
	User UserSummary `json:"user"`
}
