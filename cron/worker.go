package cron

import (
	"context"
	"encoding/json"
	"time"

	"lawlink/config"
	"lawlink/models"
	"lawlink/services/tasks"
	"lawlink/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitPaymentWorker runs the async payment-confirmation worker in
// background.
func InitPaymentWorker(confirmer tasks.PaymentConfirmer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaymentConfirm, handlePaymentConfirmTask(confirmer))

	go monitorRedisConnection()

	go func() {
		logger := utils.GetLogger()
		logger.Info("Starting payment worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Payment worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Payment worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handlePaymentConfirmTask(confirmer tasks.PaymentConfirmer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.PaymentConfirmPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid payment confirmation payload", zap.Error(err))
			return err
		}

		confirmation, err := confirmer.ConfirmPayment(ctx, p)
		if err != nil {
			logger.Error("Payment confirmation failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}

		logger.Info("Payment confirmation settled",
			zap.String("bookingId", p.BookingID),
			zap.String("paymentIntentId", confirmation.PaymentIntentID))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures
// at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("Task queue Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
