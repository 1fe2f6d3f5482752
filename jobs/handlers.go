package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
)

// NewPaymentSettleHandler processes TaskTypePaymentSettle tasks.
func NewPaymentSettleHandler(svc *payments.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PaymentSettlePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := svc.Settle(ctx, payload.PaymentID); err != nil {
			logger.Error("settle payment",
				slog.Int64("payment_id", payload.PaymentID),
				slog.Any("error", err))
			return err
		}
		return nil
	}
}

// NewListingExpireHandler processes TaskTypeListingExpire tasks.
func NewListingExpireHandler(repo listings.RepositoryPort, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		expired, err := repo.ExpireOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("expire listings", slog.Any("error", err))
			return err
		}
		if expired > 0 {
			logger.Info("listings expired", slog.Int64("count", expired))
		}
		return nil
	}
}
