package admin

import (
	"time"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
)

// Stats holds the headline counters for the dashboard.
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalListings   int `json:"totalListings"`
	PendingListings int `json:"pendingListings"`
	TotalPayments   int `json:"totalPayments"`
}

// RecentUser is the trimmed user row shown on the dashboard.
type RecentUser struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email,omitempty"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dashboard aggregates everything the admin landing page needs.
type Dashboard struct {
	Stats           Stats              `json:"stats"`
	RecentUsers     []RecentUser       `json:"recentUsers"`
	PendingListings []listings.Listing `json:"pendingListings"`
}

// ManagedUser is the user row in the admin user list.
type ManagedUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         auth.Role `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	IsActive     bool      `json:"isActive"`
	Province     string    `json:"province,omitempty"`
	City         string    `json:"city,omitempty"`
	ListingCount int       `json:"listingCount"`
	ReviewCount  int       `json:"reviewCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
