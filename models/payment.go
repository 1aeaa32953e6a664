package models

import "time"

// PaymentConfirmation is the receipt produced by the payment
// confirmation hook. No real money moves; the id is bookkeeping only.
type PaymentConfirmation struct {
	PaymentIntentID string    `json:"paymentIntentId"`
	BookingID       string    `json:"bookingId"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"` // "succeeded"
	ConfirmedAt     time.Time `json:"confirmedAt"`
}

// PaymentConfirmPayload is the asynq task payload enqueued after a
// booking completes.
type PaymentConfirmPayload struct {
	BookingID string  `json:"bookingId"`
	LawyerID  string  `json:"lawyerId"`
	ClientID  string  `json:"clientId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}
