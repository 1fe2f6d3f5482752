package categories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

type fakeRepo struct {
	flat      []Category
	listCalls int
	nextID    int64
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]Category, error) {
	f.listCalls++
	return append([]Category(nil), f.flat...), nil
}

func (f *fakeRepo) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	for _, c := range f.flat {
		if c.Slug == slug {
			copied := c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, category Category) (Category, error) {
	f.nextID++
	category.ID = f.nextID
	f.flat = append(f.flat, category)
	return category, nil
}

func ptr(id int64) *int64 { return &id }

func TestBuildTreeNestsChildrenAndSumsCounts(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Real Estate", Slug: "real-estate", ListingCount: 2},
		{ID: 2, Name: "Vehicles", Slug: "vehicles"},
		{ID: 3, Name: "Houses for Rent", Slug: "houses-rent", ParentID: ptr(1), ListingCount: 5},
		{ID: 4, Name: "Offices", Slug: "offices", ParentID: ptr(1), ListingCount: 1},
		{ID: 5, Name: "Cars for Sale", Slug: "cars-sale", ParentID: ptr(2), ListingCount: 3},
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 2)

	realEstate := tree[0]
	assert.Equal(t, "real-estate", realEstate.Slug)
	require.Len(t, realEstate.Children, 2)
	assert.Equal(t, int64(2+5+1), realEstate.ListingCount)

	vehicles := tree[1]
	require.Len(t, vehicles.Children, 1)
	assert.Equal(t, int64(3), vehicles.ListingCount)
}

func TestTreeCachesUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &fakeRepo{flat: []Category{{ID: 1, Name: "Vehicles", Slug: "vehicles"}}, nextID: 1}
	svc := NewService(repo, cache)
	ctx := context.Background()

	_, err := svc.Tree(ctx)
	require.NoError(t, err)
	_, err = svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second read must come from cache")

	_, err = svc.Create(ctx, Category{Name: "Real Estate"})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "bump must invalidate the cached tree")
	assert.Len(t, tree, 2)
}

func TestTreeWithoutRedisFallsThrough(t *testing.T) {
	repo := &fakeRepo{flat: []Category{{ID: 1, Name: "Vehicles", Slug: "vehicles"}}}
	svc := NewService(repo, NewCache(nil, time.Minute))

	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)
	assert.Len(t, tree, 1)
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo := &fakeRepo{flat: []Category{{ID: 1, Name: "Vehicles", Slug: "vehicles"}}, nextID: 1}
	svc := NewService(repo, NewCache(nil, time.Minute))

	_, err := svc.Create(context.Background(), Category{Name: "Vehicles"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}
