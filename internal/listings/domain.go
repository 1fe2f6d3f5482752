package listings

import "time"

// Status tracks the moderation lifecycle of a listing.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

// Seller is the public projection of the listing owner.
type Seller struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	IsVerified bool   `json:"isVerified"`
}

// CategoryRef is the category summary embedded in a listing.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Listing is a classified ad.
type Listing struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Price         float64     `json:"price"`
	Currency      string      `json:"currency"`
	Type          string      `json:"type"`
	Status        Status      `json:"status"`
	Province      string      `json:"province"`
	City          string      `json:"city"`
	Commune       string      `json:"commune,omitempty"`
	ExactLocation string      `json:"exactLocation,omitempty"`
	ContactPhone  string      `json:"contactPhone,omitempty"`
	ContactEmail  string      `json:"contactEmail,omitempty"`
	Images        []string    `json:"images"`
	IsFeatured    bool        `json:"isFeatured"`
	ViewCount     int         `json:"viewCount"`
	UserID        int64       `json:"userId"`
	CategoryID    int64       `json:"categoryId"`
	Seller        Seller      `json:"user"`
	Category      CategoryRef `json:"category"`
	FavoriteCount int         `json:"favoriteCount"`
	ReviewCount   int         `json:"reviewCount"`
	ExpiresAt     time.Time   `json:"expiresAt"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Filter narrows the public browse query. Zero values are ignored.
type Filter struct {
	CategorySlug string
	Search       string
	Province     string
	City         string
	Type         string
	MinPrice     *float64
	MaxPrice     *float64
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// CreateInput carries the fields a seller supplies for a new listing.
type CreateInput struct {
	Title         string
	Description   string
	Price         float64
	Currency      string
	Type          string
	CategoryID    int64
	Province      string
	City          string
	Commune       string
	ExactLocation string
	ContactPhone  string
	ContactEmail  string
	Images        []string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string
	Description   *string
	Price         *float64
	Currency      *string
	Type          *string
	Province      *string
	City          *string
	Commune       *string
	ExactLocation *string
	ContactPhone  *string
	ContactEmail  *string
	Images        []string
}
