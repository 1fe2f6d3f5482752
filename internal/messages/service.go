package messages

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service contains messaging business rules.
type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Send delivers a message to the receiver. The receiver must exist and a
// user cannot message themselves.
func (s *Service) Send(ctx context.Context, senderID, receiverID int64, listingID *int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", shared.ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", shared.ErrValidation)
	}
	ok, err := s.repo.UserExists(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("check receiver: %w", err)
	}
	if !ok {
		return nil, shared.ErrNotFound
	}

	m := &Message{
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return m, nil
}

// Conversation returns the full thread with the other user, oldest first,
// and marks their messages read.
func (s *Service) Conversation(ctx context.Context, userID, otherID int64) ([]Message, error) {
	items, err := s.repo.Conversation(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if err := s.repo.MarkRead(ctx, otherID, userID); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	if items == nil {
		items = []Message{}
	}
	return items, nil
}

// Conversations returns the overview of all threads, most recent first.
func (s *Service) Conversations(ctx context.Context, userID int64) ([]Conversation, error) {
	items, err := s.repo.Conversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastMessageTime.After(items[j].LastMessageTime)
	})
	if items == nil {
		items = []Conversation{}
	}
	return items, nil
}
