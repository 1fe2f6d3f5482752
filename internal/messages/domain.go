package messages

import "time"

// Participant is the public projection of a message party.
type Participant struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`
}

// Message is a direct message between two users, optionally tied to a
// listing the conversation started from.
type Message struct {
	ID         int64       `json:"id"`
	Content    string      `json:"content"`
	SenderID   int64       `json:"senderId"`
	ReceiverID int64       `json:"receiverId"`
	ListingID  *int64      `json:"listingId,omitempty"`
	IsRead     bool        `json:"isRead"`
	Sender     Participant `json:"sender"`
	Receiver   Participant `json:"receiver"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Conversation summarizes the thread with one counterpart.
type Conversation struct {
	UserID          int64       `json:"userId"`
	User            Participant `json:"user"`
	LastMessage     string      `json:"lastMessage"`
	LastMessageTime time.Time   `json:"lastMessageTime"`
	UnreadCount     int         `json:"unreadCount"`
}
