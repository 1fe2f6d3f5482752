package categories

import "time"

// Category is one node of the two-level marketplace taxonomy. Names are
// kept in English, French and Swahili to match the storefront languages.
type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	NameFr       string     `json:"nameFr,omitempty"`
	NameSw       string     `json:"nameSw,omitempty"`
	Slug         string     `json:"slug"`
	Icon         string     `json:"icon,omitempty"`
	ParentID     *int64     `json:"parentId,omitempty"`
	ListingCount int64      `json:"listingCount"`
	Children     []Category `json:"children,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}
