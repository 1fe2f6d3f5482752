package payments

import "time"

// Status tracks a payment through its lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// TypeListingFee is the payment type that unlocks a pending listing.
const TypeListingFee = "LISTING_FEE"

// Payment is a mobile-money charge initiated by a user.
type Payment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ListingID     *int64    `json:"listingId,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentType   string    `json:"paymentType"`
	Provider      string    `json:"provider"`
	PhoneNumber   string    `json:"phoneNumber"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status"`
	TransactionID string    `json:"transactionId,omitempty"`
	ListingTitle  string    `json:"listingTitle,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// InitiateInput carries the fields for a new payment.
type InitiateInput struct {
	ListingID   *int64
	PaymentType string
	Amount      float64
	Currency    string
	Provider    string
	PhoneNumber string
	Description string
}
