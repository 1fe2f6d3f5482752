package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service contains review business rules.
type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func validScore(n int) bool { return n >= 1 && n <= 5 }

// Create stores a review. A reviewer can rate a listing once; a second
// attempt yields shared.ErrDuplicate through the unique constraint.
func (s *Service) Create(ctx context.Context, reviewerID int64, in CreateInput) (*Review, error) {
	if !validScore(in.Rating) || !validScore(in.ServiceQuality) ||
		!validScore(in.Communication) || !validScore(in.Timeliness) {
		return nil, fmt.Errorf("%w: scores must be between 1 and 5", shared.ErrValidation)
	}

	sellerID, err := s.repo.ListingOwner(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if sellerID == reviewerID {
		return nil, fmt.Errorf("%w: cannot review your own listing", shared.ErrValidation)
	}

	rv := &Review{
		Rating:         in.Rating,
		Comment:        in.Comment,
		ServiceQuality: in.ServiceQuality,
		Communication:  in.Communication,
		Timeliness:     in.Timeliness,
		ReviewerID:     reviewerID,
		ListingID:      in.ListingID,
		SellerID:       sellerID,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil, fmt.Errorf("%w: you have already reviewed this listing", shared.ErrDuplicate)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return rv, nil
}

// ListForListing returns a page of reviews plus the score averages.
func (s *Service) ListForListing(ctx context.Context, listingID int64, page, limit int) ([]Review, *Averages, shared.Pagination, error) {
	page, limit = shared.PageParams(page, limit, 50)

	items, total, err := s.repo.ListForListing(ctx, listingID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, shared.Pagination{}, fmt.Errorf("list reviews: %w", err)
	}
	if items == nil {
		items = []Review{}
	}
	averages, err := s.repo.AveragesForListing(ctx, listingID)
	if err != nil {
		return nil, nil, shared.Pagination{}, fmt.Errorf("review averages: %w", err)
	}
	return items, averages, shared.NewPagination(page, limit, total), nil
}
