package users

import "time"

// Profile is the full account view a user sees of themselves.
type Profile struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	Province   string    `json:"province,omitempty"`
	City       string    `json:"city,omitempty"`
	Commune    string    `json:"commune,omitempty"`
	Address    string    `json:"address,omitempty"`
	IDNumber   string    `json:"idNumber,omitempty"`
	IDType     string    `json:"idType,omitempty"`
	NIFNumber  string    `json:"nifNumber,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProfileUpdate carries the fields a user may change about themselves.
// Identity documents and verification state stay admin-controlled.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Province  string
	City      string
	Commune   string
	Address   string
}
