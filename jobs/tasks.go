package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePaymentSettle settles a pending mobile-money payment.
	TaskTypePaymentSettle = "payment:settle"
	// TaskTypeListingExpire flips approved listings past their expiry.
	TaskTypeListingExpire = "listing:expire"
)

// PaymentSettlePayload identifies the payment to settle.
type PaymentSettlePayload struct {
	PaymentID int64 `json:"paymentId"`
}

// NewPaymentSettleTask constructs an Asynq task.
func NewPaymentSettleTask(payload PaymentSettlePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePaymentSettle, data), nil
}

// NewListingExpireTask constructs the daily expiry sweep task. It carries
// no payload.
func NewListingExpireTask() *asynq.Task {
	return asynq.NewTask(TaskTypeListingExpire, nil)
}
