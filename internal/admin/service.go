package admin

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Auditor records admin activity.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ListingModerator flips listing statuses.
type ListingModerator interface {
	UpdateStatus(ctx context.Context, id int64, status listings.Status) error
}

// Service contains the back-office business rules.
type Service struct {
	repo      RepositoryPort
	moderator ListingModerator
	audit     Auditor
}

func NewService(repo RepositoryPort, moderator ListingModerator, audit Auditor) *Service {
	return &Service{repo: repo, moderator: moderator, audit: audit}
}

// Dashboard fans out the counter and preview queries concurrently and
// assembles the landing page payload.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountUsers(ctx)
		d.Stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountListings(ctx)
		d.Stats.TotalListings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountListingsByStatus(ctx, listings.StatusPending)
		d.Stats.PendingListings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountPaymentsByStatus(ctx, payments.StatusCompleted)
		d.Stats.TotalPayments = n
		return err
	})
	g.Go(func() error {
		users, err := s.repo.RecentUsers(ctx, 5)
		d.RecentUsers = users
		return err
	})
	g.Go(func() error {
		pending, _, err := s.repo.ListListings(ctx, listings.StatusPending, 10, 0)
		d.PendingListings = pending
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	if d.RecentUsers == nil {
		d.RecentUsers = []RecentUser{}
	}
	if d.PendingListings == nil {
		d.PendingListings = []listings.Listing{}
	}
	return &d, nil
}

// Listings returns listings in any status for moderation review.
func (s *Service) Listings(ctx context.Context, status listings.Status, page, limit int) ([]listings.Listing, shared.Pagination, error) {
	page, limit = shared.PageParams(page, limit, 100)

	items, total, err := s.repo.ListListings(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list listings: %w", err)
	}
	if items == nil {
		items = []listings.Listing{}
	}
	return items, shared.NewPagination(page, limit, total), nil
}

// ModerateListing approves or rejects a pending listing and records the
// decision in the audit trail.
func (s *Service) ModerateListing(ctx context.Context, actor *auth.Principal, id int64, status listings.Status, reason string) error {
	if status != listings.StatusApproved && status != listings.StatusRejected {
		return fmt.Errorf("%w: status must be APPROVED or REJECTED", shared.ErrValidation)
	}
	if err := s.moderator.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "listing.moderate",
			Entity:   "listing",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"status": string(status), "reason": reason},
		})
	}
	return nil
}

// Users returns users for the back office, optionally filtered by role.
func (s *Service) Users(ctx context.Context, role auth.Role, page, limit int) ([]ManagedUser, shared.Pagination, error) {
	page, limit = shared.PageParams(page, limit, 100)

	items, total, err := s.repo.ListUsers(ctx, role, limit, (page-1)*limit)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	if items == nil {
		items = []ManagedUser{}
	}
	return items, shared.NewPagination(page, limit, total), nil
}

// VerifyUser marks the user's identity documents as checked.
func (s *Service) VerifyUser(ctx context.Context, actor *auth.Principal, id int64) (*ManagedUser, error) {
	u, err := s.repo.VerifyUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "user.verify",
			Entity:   "user",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	return u, nil
}

// ChangeRole moves a user to a new tier. Only a super admin may do this,
// and nobody can change their own role.
func (s *Service) ChangeRole(ctx context.Context, actor *auth.Principal, id int64, role auth.Role) error {
	if err := auth.RequireRole(actor, auth.RoleSuperAdmin); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot change your own role", shared.ErrValidation)
	}
	if err := s.repo.UpdateUserRole(ctx, id, role); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "user.change_role",
			Entity:   "user",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"role": string(role)},
		})
	}
	return nil
}
