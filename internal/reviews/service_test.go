package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type fakeRepo struct {
	owners  map[int64]int64
	reviews []Review
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{owners: map[int64]int64{10: 7}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, rv *Review) error {
	for _, existing := range f.reviews {
		if existing.ReviewerID == rv.ReviewerID && existing.ListingID == rv.ListingID {
			return shared.ErrDuplicate
		}
	}
	rv.ID = f.nextID
	f.nextID++
	f.reviews = append(f.reviews, *rv)
	return nil
}

func (f *fakeRepo) ListForListing(_ context.Context, listingID int64, limit, offset int) ([]Review, int, error) {
	var out []Review
	for _, rv := range f.reviews {
		if rv.ListingID == listingID {
			out = append(out, rv)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeRepo) AveragesForListing(_ context.Context, listingID int64) (*Averages, error) {
	var avg Averages
	var n float64
	for _, rv := range f.reviews {
		if rv.ListingID == listingID {
			avg.Rating += float64(rv.Rating)
			avg.ServiceQuality += float64(rv.ServiceQuality)
			avg.Communication += float64(rv.Communication)
			avg.Timeliness += float64(rv.Timeliness)
			n++
		}
	}
	if n > 0 {
		avg.Rating /= n
		avg.ServiceQuality /= n
		avg.Communication /= n
		avg.Timeliness /= n
	}
	return &avg, nil
}

func (f *fakeRepo) ListingOwner(_ context.Context, listingID int64) (int64, error) {
	owner, ok := f.owners[listingID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return owner, nil
}

func input(listingID int64) CreateInput {
	return CreateInput{
		ListingID:      listingID,
		Rating:         4,
		Comment:        "Fast and honest seller",
		ServiceQuality: 5,
		Communication:  4,
		Timeliness:     3,
	}
}

func TestCreateReview(t *testing.T) {
	svc := NewService(newFakeRepo())

	rv, err := svc.Create(context.Background(), 2, input(10))
	require.NoError(t, err)
	assert.Equal(t, int64(7), rv.SellerID, "review must pin the listing owner")
}

func TestCreateReviewOncePerReviewer(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), 2, input(10))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, input(10))
	assert.True(t, errors.Is(err, shared.ErrDuplicate))

	_, err = svc.Create(context.Background(), 3, input(10))
	assert.NoError(t, err, "a different reviewer may still rate")
}

func TestCreateReviewRejectsOwnListing(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), 7, input(10))
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestCreateReviewScoreBounds(t *testing.T) {
	svc := NewService(newFakeRepo())

	in := input(10)
	in.Timeliness = 6
	_, err := svc.Create(context.Background(), 2, in)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	in = input(10)
	in.Rating = 0
	_, err = svc.Create(context.Background(), 2, in)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestCreateReviewUnknownListing(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), 2, input(999))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestListForListingAverages(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	first := input(10)
	_, err := svc.Create(context.Background(), 2, first)
	require.NoError(t, err)

	second := input(10)
	second.Rating = 2
	second.ServiceQuality = 1
	_, err = svc.Create(context.Background(), 3, second)
	require.NoError(t, err)

	items, averages, pagination, err := svc.ListForListing(context.Background(), 10, 1, 10)
	require.NoError(t, err)

	assert.Len(t, items, 2)
	assert.Equal(t, 2, pagination.Total)
	assert.InDelta(t, 3.0, averages.Rating, 0.001)
	assert.InDelta(t, 3.0, averages.ServiceQuality, 0.001)
}
