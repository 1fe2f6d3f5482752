package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Scheduler queues a settlement to run after the given delay. The queue
// survives restarts, so an initiated payment always reaches an outcome.
type Scheduler interface {
	ScheduleSettlement(ctx context.Context, paymentID int64, delay time.Duration) error
}

// ListingApprover flips a listing's status once its fee clears.
type ListingApprover interface {
	UpdateStatus(ctx context.Context, id int64, status listings.Status) error
}

// IdempotencyGuard records processed request keys.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// SettlementObserver counts settlement outcomes for monitoring.
type SettlementObserver interface {
	ObservePaymentSettled(status string)
}

// Service contains payment business rules.
type Service struct {
	repo        RepositoryPort
	scheduler   Scheduler
	provider    Provider
	approver    ListingApprover
	idempotency IdempotencyGuard
	observer    SettlementObserver
	delay       time.Duration
	logger      *slog.Logger
}

type ServiceConfig struct {
	Repo        RepositoryPort
	Scheduler   Scheduler
	Provider    Provider
	Approver    ListingApprover
	Idempotency IdempotencyGuard
	Observer    SettlementObserver
	SettleDelay time.Duration
	Logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 3 * time.Second
	}
	if cfg.Provider == nil {
		cfg.Provider = NewStubProvider()
	}
	return &Service{
		repo:        cfg.Repo,
		scheduler:   cfg.Scheduler,
		provider:    cfg.Provider,
		approver:    cfg.Approver,
		idempotency: cfg.Idempotency,
		observer:    cfg.Observer,
		delay:       cfg.SettleDelay,
		logger:      cfg.Logger,
	}
}

// Initiate records a PENDING payment and queues its settlement. When the
// caller supplies an idempotency key, a repeated request with the same key
// yields shared.ErrIdempotencyConflict instead of a second charge.
func (s *Service) Initiate(ctx context.Context, userID int64, in InitiateInput, idemKey string) (*Payment, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if in.PaymentType == "" || in.Provider == "" || in.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: paymentType, provider and phoneNumber are required", shared.ErrValidation)
	}
	if in.Currency == "" {
		in.Currency = "CDF"
	}

	insertedKey := false
	if idemKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idemKey, "payments"); err != nil {
			return nil, err
		}
		insertedKey = true
	}

	p := &Payment{
		UserID:      userID,
		ListingID:   in.ListingID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		PaymentType: in.PaymentType,
		Provider:    in.Provider,
		PhoneNumber: in.PhoneNumber,
		Description: in.Description,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, idemKey)
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := s.scheduler.ScheduleSettlement(ctx, p.ID, s.delay); err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, idemKey)
		}
		return nil, fmt.Errorf("schedule settlement: %w", err)
	}
	return p, nil
}

// Get returns a payment visible only to its owner or an admin tier.
func (s *Service) Get(ctx context.Context, principal *auth.Principal, id int64) (*Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrRole(principal, p.UserID, auth.AdminRoles()...); err != nil {
		return nil, err
	}
	return p, nil
}

// ListForUser returns the user's payments, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64, page, limit int) ([]Payment, shared.Pagination, error) {
	page, limit = shared.PageParams(page, limit, 100)

	items, total, err := s.repo.ListForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list payments: %w", err)
	}
	if items == nil {
		items = []Payment{}
	}
	return items, shared.NewPagination(page, limit, total), nil
}

// Settle runs the provider charge and records the outcome. Settling a
// payment that already left PENDING is a no-op so queue retries stay safe.
// A successful listing fee approves the listing it paid for.
func (s *Service) Settle(ctx context.Context, paymentID int64) error {
	p, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if p.Status != StatusPending {
		return nil
	}

	txnRef, ok, err := s.provider.Charge(ctx, p)
	if err != nil {
		return fmt.Errorf("provider charge: %w", err)
	}

	status := StatusFailed
	if ok {
		status = StatusCompleted
	}
	if err := s.repo.SetOutcome(ctx, paymentID, status, txnRef); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	if s.observer != nil {
		s.observer.ObservePaymentSettled(string(status))
	}
	if s.logger != nil {
		s.logger.Info("payment settled",
			slog.Int64("payment_id", paymentID),
			slog.String("status", string(status)))
	}

	if ok && p.PaymentType == TypeListingFee && p.ListingID != nil && s.approver != nil {
		if err := s.approver.UpdateStatus(ctx, *p.ListingID, listings.StatusApproved); err != nil {
			return fmt.Errorf("approve listing: %w", err)
		}
	}
	return nil
}
