package listings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service contains listing business rules.
type Service struct {
	repo RepositoryPort
	ttl  time.Duration
}

func NewService(repo RepositoryPort, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{repo: repo, ttl: ttl}
}

// Browse returns approved listings matching the filter, newest first.
func (s *Service) Browse(ctx context.Context, f Filter, page, limit int) ([]Listing, shared.Pagination, error) {
	page, limit = shared.PageParams(page, limit, 100)
	f.Limit = limit
	f.Offset = (page - 1) * limit

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list listings: %w", err)
	}
	if items == nil {
		items = []Listing{}
	}
	return items, shared.NewPagination(page, limit, total), nil
}

// Get fetches one listing and bumps its view counter. The counter write is
// best effort; a failed increment never hides the listing.
func (s *Service) Get(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViewCount(ctx, id); err == nil {
		l.ViewCount++
	}
	return l, nil
}

// Create stores a new listing for the principal. Every new listing starts
// PENDING and carries an expiry so stale ads age out.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, in CreateInput) (*Listing, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", shared.ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	ok, err := s.repo.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid category", shared.ErrValidation)
	}

	if in.Currency == "" {
		in.Currency = "CDF"
	}
	if in.Images == nil {
		in.Images = []string{}
	}

	l := &Listing{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		Currency:      in.Currency,
		Type:          in.Type,
		Status:        StatusPending,
		Province:      in.Province,
		City:          in.City,
		Commune:       in.Commune,
		ExactLocation: in.ExactLocation,
		ContactPhone:  in.ContactPhone,
		ContactEmail:  in.ContactEmail,
		Images:        in.Images,
		UserID:        principal.ID,
		CategoryID:    in.CategoryID,
		ExpiresAt:     time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return s.repo.FindByID(ctx, l.ID)
}

// Update applies a partial edit. Only the owner or an admin tier may edit.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id int64, in UpdateInput) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrRole(principal, l.UserID, auth.AdminRoles()...); err != nil {
		return nil, err
	}

	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.Currency != nil {
		l.Currency = *in.Currency
	}
	if in.Type != nil {
		l.Type = *in.Type
	}
	if in.Province != nil {
		l.Province = *in.Province
	}
	if in.City != nil {
		l.City = *in.City
	}
	if in.Commune != nil {
		l.Commune = *in.Commune
	}
	if in.ExactLocation != nil {
		l.ExactLocation = *in.ExactLocation
	}
	if in.ContactPhone != nil {
		l.ContactPhone = *in.ContactPhone
	}
	if in.ContactEmail != nil {
		l.ContactEmail = *in.ContactEmail
	}
	if in.Images != nil {
		l.Images = in.Images
	}
	if l.Title == "" || l.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", shared.ErrValidation)
	}
	if l.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes the listing. Only the owner or an admin tier may delete.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrRole(principal, l.UserID, auth.AdminRoles()...); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
