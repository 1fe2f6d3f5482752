package favorites

import (
	"time"

	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
)

// Favorite is a saved listing for a user.
type Favorite struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	ListingID int64            `json:"listingId"`
	Listing   listings.Listing `json:"listing"`
	CreatedAt time.Time        `json:"createdAt"`
}
