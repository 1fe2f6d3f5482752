package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service handles profile business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile applies user-editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Profile, error) {
	update.FirstName = strings.TrimSpace(update.FirstName)
	update.LastName = strings.TrimSpace(update.LastName)
	if update.FirstName == "" || update.LastName == "" {
		return nil, fmt.Errorf("%w: first name and last name are required", shared.ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, userID, update)
}
