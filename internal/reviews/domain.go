package reviews

import "time"

// Reviewer is the public projection of the review author.
type Reviewer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`
}

// Review is a rating left on a listing. Besides the overall rating it
// carries three sub-scores for the seller's conduct.
type Review struct {
	ID             int64     `json:"id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	ServiceQuality int       `json:"serviceQuality"`
	Communication  int       `json:"communication"`
	Timeliness     int       `json:"timeliness"`
	ReviewerID     int64     `json:"reviewerId"`
	ListingID      int64     `json:"listingId"`
	SellerID       int64     `json:"sellerId"`
	Reviewer       Reviewer  `json:"reviewer"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Averages holds the per-listing mean of each score.
type Averages struct {
	Rating         float64 `json:"rating"`
	ServiceQuality float64 `json:"serviceQuality"`
	Communication  float64 `json:"communication"`
	Timeliness     float64 `json:"timeliness"`
}

// CreateInput carries the fields for a new review.
type CreateInput struct {
	ListingID      int64
	Rating         int
	Comment        string
	ServiceQuality int
	Communication  int
	Timeliness     int
}
