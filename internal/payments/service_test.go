package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type fakeRepo struct {
	payments map[int64]*Payment
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: map[int64]*Payment{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, p *Payment) error {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID int64, limit, offset int) ([]Payment, int, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) SetOutcome(_ context.Context, id int64, status Status, txnRef string) error {
	p, ok := f.payments[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Status = status
	p.TransactionID = txnRef
	return nil
}

type fakeScheduler struct {
	scheduled []int64
	delay     time.Duration
	err       error
}

func (f *fakeScheduler) ScheduleSettlement(_ context.Context, paymentID int64, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, paymentID)
	f.delay = delay
	return nil
}

type fakeApprover struct {
	approved map[int64]listings.Status
}

func (f *fakeApprover) UpdateStatus(_ context.Context, id int64, status listings.Status) error {
	if f.approved == nil {
		f.approved = map[int64]listings.Status{}
	}
	f.approved[id] = status
	return nil
}

type fakeGuard struct {
	keys map[string]bool
}

func (f *fakeGuard) CheckAndInsert(_ context.Context, key, _ string) error {
	if f.keys == nil {
		f.keys = map[string]bool{}
	}
	if f.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	f.keys[key] = true
	return nil
}

func (f *fakeGuard) Delete(_ context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

type fixedProvider struct {
	ok  bool
	ref string
}

func (p fixedProvider) Charge(_ context.Context, _ *Payment) (string, bool, error) {
	return p.ref, p.ok, nil
}

func input(listingID *int64) InitiateInput {
	return InitiateInput{
		ListingID:   listingID,
		PaymentType: TypeListingFee,
		Amount:      5000,
		Provider:    "MPESA",
		PhoneNumber: "+243812345678",
	}
}

func newTestService(repo RepositoryPort, sched Scheduler, prov Provider, approver ListingApprover, guard IdempotencyGuard) *Service {
	return NewService(ServiceConfig{
		Repo:        repo,
		Scheduler:   sched,
		Provider:    prov,
		Approver:    approver,
		Idempotency: guard,
		SettleDelay: 3 * time.Second,
	})
}

func TestInitiateQueuesSettlement(t *testing.T) {
	repo := newFakeRepo()
	sched := &fakeScheduler{}
	svc := newTestService(repo, sched, fixedProvider{}, nil, nil)

	p, err := svc.Initiate(context.Background(), 1, input(nil), "")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "CDF", p.Currency)
	assert.Equal(t, []int64{p.ID}, sched.scheduled)
	assert.Equal(t, 3*time.Second, sched.delay)
}

func TestInitiateIdempotencyKey(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeScheduler{}, fixedProvider{}, nil, &fakeGuard{})

	_, err := svc.Initiate(context.Background(), 1, input(nil), "req-1")
	require.NoError(t, err)

	_, err = svc.Initiate(context.Background(), 1, input(nil), "req-1")
	assert.True(t, errors.Is(err, shared.ErrIdempotencyConflict))
	assert.Len(t, repo.payments, 1, "the retry must not create a second charge")
}

func TestInitiateReleasesKeyOnScheduleFailure(t *testing.T) {
	guard := &fakeGuard{}
	sched := &fakeScheduler{err: errors.New("queue down")}
	svc := newTestService(newFakeRepo(), sched, fixedProvider{}, nil, guard)

	_, err := svc.Initiate(context.Background(), 1, input(nil), "req-1")
	require.Error(t, err)
	assert.False(t, guard.keys["req-1"], "a failed initiate must free the key for retry")
}

func TestInitiateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeScheduler{}, fixedProvider{}, nil, nil)

	in := input(nil)
	in.Amount = 0
	_, err := svc.Initiate(context.Background(), 1, in, "")
	assert.True(t, errors.Is(err, shared.ErrValidation))

	in = input(nil)
	in.PhoneNumber = ""
	_, err = svc.Initiate(context.Background(), 1, in, "")
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSettleSuccessApprovesListing(t *testing.T) {
	repo := newFakeRepo()
	approver := &fakeApprover{}
	svc := newTestService(repo, &fakeScheduler{}, fixedProvider{ok: true, ref: "TXN-abc"}, approver, nil)

	listingID := int64(10)
	p, err := svc.Initiate(context.Background(), 1, input(&listingID), "")
	require.NoError(t, err)

	require.NoError(t, svc.Settle(context.Background(), p.ID))

	stored, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, "TXN-abc", stored.TransactionID)
	assert.Equal(t, listings.StatusApproved, approver.approved[listingID])
}

func TestSettleFailureLeavesListingAlone(t *testing.T) {
	repo := newFakeRepo()
	approver := &fakeApprover{}
	svc := newTestService(repo, &fakeScheduler{}, fixedProvider{ok: false}, approver, nil)

	listingID := int64(10)
	p, err := svc.Initiate(context.Background(), 1, input(&listingID), "")
	require.NoError(t, err)

	require.NoError(t, svc.Settle(context.Background(), p.ID))

	stored, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Empty(t, stored.TransactionID)
	assert.Empty(t, approver.approved)
}

func TestSettleIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	approver := &fakeApprover{}
	svc := newTestService(repo, &fakeScheduler{}, fixedProvider{ok: true, ref: "TXN-abc"}, approver, nil)

	listingID := int64(10)
	p, err := svc.Initiate(context.Background(), 1, input(&listingID), "")
	require.NoError(t, err)

	require.NoError(t, svc.Settle(context.Background(), p.ID))

	// Flip the provider to failure; the retry must not rewrite the outcome.
	svc.provider = fixedProvider{ok: false}
	require.NoError(t, svc.Settle(context.Background(), p.ID))

	stored, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestGetOwnerOrAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeScheduler{}, fixedProvider{}, nil, nil)

	p, err := svc.Initiate(context.Background(), 1, input(nil), "")
	require.NoError(t, err)

	owner := &auth.Principal{ID: 1, Role: auth.RoleClient, IsActive: true}
	_, err = svc.Get(context.Background(), owner, p.ID)
	assert.NoError(t, err)

	stranger := &auth.Principal{ID: 2, Role: auth.RoleClient, IsActive: true}
	_, err = svc.Get(context.Background(), stranger, p.ID)
	assert.True(t, errors.Is(err, auth.ErrForbidden))

	admin := &auth.Principal{ID: 3, Role: auth.RoleAdmin, IsActive: true}
	_, err = svc.Get(context.Background(), admin, p.ID)
	assert.NoError(t, err)
}
