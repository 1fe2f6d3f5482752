package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type fakeRepo struct {
	listings map[int64]bool
	saved    map[[2]int64]*Favorite
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{listings: map[int64]bool{10: true}, saved: map[[2]int64]*Favorite{}, nextID: 1}
}

func (f *fakeRepo) Add(_ context.Context, userID, listingID int64) (*Favorite, error) {
	key := [2]int64{userID, listingID}
	if _, ok := f.saved[key]; ok {
		return nil, shared.ErrDuplicate
	}
	fav := &Favorite{ID: f.nextID, UserID: userID, ListingID: listingID}
	f.nextID++
	f.saved[key] = fav
	return fav, nil
}

func (f *fakeRepo) Remove(_ context.Context, userID, listingID int64) error {
	key := [2]int64{userID, listingID}
	if _, ok := f.saved[key]; !ok {
		return shared.ErrNotFound
	}
	delete(f.saved, key)
	return nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID int64) ([]Favorite, error) {
	var out []Favorite
	for key, fav := range f.saved {
		if key[0] == userID {
			out = append(out, *fav)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListingExists(_ context.Context, listingID int64) (bool, error) {
	return f.listings[listingID], nil
}

func TestAddFavorite(t *testing.T) {
	svc := NewService(newFakeRepo())

	fav, err := svc.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fav.ListingID)

	_, err = svc.Add(context.Background(), 1, 10)
	assert.True(t, errors.Is(err, shared.ErrDuplicate), "second save must report a duplicate")
}

func TestAddFavoriteUnknownListing(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Add(context.Background(), 1, 999)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestRemoveFavorite(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Add(context.Background(), 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), 1, 10))
	assert.True(t, errors.Is(svc.Remove(context.Background(), 1, 10), shared.ErrNotFound))
}

func TestListReturnsEmptySlice(t *testing.T) {
	svc := NewService(newFakeRepo())

	items, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
