package tasks

import (
	"context"
	"encoding/json"
	"time"

	"lawlink/models"
	"lawlink/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePaymentConfirm is the asynq task type for post-completion
// payment confirmation.
const TypePaymentConfirm = "payment:confirm"

// NewPaymentConfirmTask wraps the payload into an asynq task.
func NewPaymentConfirmTask(payload models.PaymentConfirmPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePaymentConfirm, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// AsynqPaymentEnqueuer pushes payment confirmations onto the task
// queue. It satisfies the booking engine's PaymentEnqueuer.
type AsynqPaymentEnqueuer struct {
	Client *asynq.Client
}

func (e *AsynqPaymentEnqueuer) EnqueuePaymentConfirmation(payload models.PaymentConfirmPayload) error {
	task, err := NewPaymentConfirmTask(payload)
	if err != nil {
		return err
	}
	_, err = e.Client.Enqueue(task)
	return err
}

// PaymentConfirmer settles a completed booking's payment. The worker
// invokes it once per dequeued task.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, payload models.PaymentConfirmPayload) (*models.PaymentConfirmation, error)
}

// FakePaymentConfirmer is the stand-in gateway: it mints a pi_fake_
// intent id and reports success without moving money.
type FakePaymentConfirmer struct{}

func (FakePaymentConfirmer) ConfirmPayment(ctx context.Context, payload models.PaymentConfirmPayload) (*models.PaymentConfirmation, error) {
	confirmation := &models.PaymentConfirmation{
		PaymentIntentID: "pi_fake_" + uuid.New().String(),
		BookingID:       payload.BookingID,
		Amount:          payload.Amount,
		Currency:        payload.Currency,
		Status:          "succeeded",
		ConfirmedAt:     time.Now(),
	}
	utils.GetLogger().Info("Payment confirmed",
		zap.String("bookingId", payload.BookingID),
		zap.String("paymentIntentId", confirmation.PaymentIntentID),
		zap.Float64("amount", payload.Amount),
		zap.String("currency", payload.Currency))
	return confirmation, nil
}
