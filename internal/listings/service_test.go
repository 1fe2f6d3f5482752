package listings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type fakeRepo struct {
	listings   map[int64]*Listing
	categories map[int64]bool
	nextID     int64
	lastFilter Filter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings:   map[int64]*Listing{},
		categories: map[int64]bool{1: true},
		nextID:     1,
	}
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]Listing, int, error) {
	f.lastFilter = filter
	var out []Listing
	for _, l := range f.listings {
		if l.Status == StatusApproved {
			out = append(out, *l)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) IncrementViewCount(_ context.Context, id int64) error {
	l, ok := f.listings[id]
	if !ok {
		return shared.ErrNotFound
	}
	l.ViewCount++
	return nil
}

func (f *fakeRepo) CategoryExists(_ context.Context, id int64) (bool, error) {
	return f.categories[id], nil
}

func (f *fakeRepo) Create(_ context.Context, l *Listing) error {
	l.ID = f.nextID
	f.nextID++
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, l *Listing) error {
	if _, ok := f.listings[l.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.listings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	l, ok := f.listings[id]
	if !ok {
		return shared.ErrNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, l := range f.listings {
		if l.Status == StatusApproved && l.ExpiresAt.Before(now) {
			l.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

func seller(id int64) *auth.Principal {
	return &auth.Principal{ID: id, Role: auth.RoleVendor, IsActive: true}
}

func TestCreateStartsPendingWithExpiry(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 30*24*time.Hour)

	l, err := svc.Create(context.Background(), seller(7), CreateInput{
		Title:       "Toyota RAV4 2018",
		Description: "Low mileage, clean papers",
		Price:       15000,
		Type:        "SELL",
		CategoryID:  1,
		Province:    "Kinshasa",
		City:        "Kinshasa",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, l.Status)
	assert.Equal(t, int64(7), l.UserID)
	assert.Equal(t, "CDF", l.Currency)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), l.ExpiresAt, time.Minute)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 0)

	_, err := svc.Create(context.Background(), seller(7), CreateInput{
		Title:       "Desk",
		Description: "Solid wood",
		CategoryID:  999,
		Type:        "SELL",
		Province:    "Kinshasa",
		City:        "Kinshasa",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdateOwnershipGate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 0)

	created, err := svc.Create(context.Background(), seller(7), CreateInput{
		Title: "Desk", Description: "Solid wood", CategoryID: 1,
		Type: "SELL", Province: "Kinshasa", City: "Kinshasa",
	})
	require.NoError(t, err)

	newTitle := "Desk with drawers"

	_, err = svc.Update(context.Background(), seller(8), created.ID, UpdateInput{Title: &newTitle})
	assert.True(t, errors.Is(err, auth.ErrForbidden), "another vendor must not edit")

	admin := &auth.Principal{ID: 99, Role: auth.RoleAdmin, IsActive: true}
	updated, err := svc.Update(context.Background(), admin, created.ID, UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Desk with drawers", updated.Title)

	price := -5.0
	_, err = svc.Update(context.Background(), seller(7), created.ID, UpdateInput{Price: &price})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestDeleteOwnershipGate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 0)

	created, err := svc.Create(context.Background(), seller(7), CreateInput{
		Title: "Desk", Description: "Solid wood", CategoryID: 1,
		Type: "SELL", Province: "Kinshasa", City: "Kinshasa",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), seller(8), created.ID)
	assert.True(t, errors.Is(err, auth.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), seller(7), created.ID))

	err = svc.Delete(context.Background(), seller(7), created.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGetIncrementsViewCount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 0)

	created, err := svc.Create(context.Background(), seller(7), CreateInput{
		Title: "Desk", Description: "Solid wood", CategoryID: 1,
		Type: "SELL", Province: "Kinshasa", City: "Kinshasa",
	})
	require.NoError(t, err)

	l, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, l.ViewCount)

	l, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, l.ViewCount)
}

func TestBrowseClampsPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 0)

	_, pagination, err := svc.Browse(context.Background(), Filter{}, -3, 5000)
	require.NoError(t, err)

	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.PerPage)
	assert.Equal(t, 100, repo.lastFilter.Limit)
	assert.Equal(t, 0, repo.lastFilter.Offset)
}
