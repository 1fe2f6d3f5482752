package favorites

import (
	"context"
	"fmt"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service contains favorites business rules.
type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Add saves a listing to the user's favorites. Saving the same listing
// twice yields shared.ErrDuplicate.
func (s *Service) Add(ctx context.Context, userID, listingID int64) (*Favorite, error) {
	ok, err := s.repo.ListingExists(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("check listing: %w", err)
	}
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s.repo.Add(ctx, userID, listingID)
}

// Remove deletes a favorite owned by the user.
func (s *Service) Remove(ctx context.Context, userID, listingID int64) error {
	return s.repo.Remove(ctx, userID, listingID)
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]Favorite, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if items == nil {
		items = []Favorite{}
	}
	return items, nil
}
