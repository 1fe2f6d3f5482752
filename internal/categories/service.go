package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Service orchestrates category reads and seeding.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Tree returns root categories with their children and listing counts,
// served from the redis cache when warm.
func (s *Service) Tree(ctx context.Context) ([]Category, error) {
	key, err := s.cache.BuildKey(ctx)
	if err != nil {
		// Cache trouble must not take category browsing down.
		return s.loadTree(ctx)
	}
	var tree []Category
	if err := s.cache.FetchJSON(ctx, key, &tree, func(ctx context.Context) (interface{}, error) {
		return s.loadTree(ctx)
	}); err != nil {
		return s.loadTree(ctx)
	}
	return tree, nil
}

func (s *Service) loadTree(ctx context.Context) ([]Category, error) {
	flat, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree nests children under their roots, preserving input order.
func BuildTree(flat []Category) []Category {
	roots := make([]Category, 0, len(flat))
	childrenByParent := make(map[int64][]Category)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		childrenByParent[*c.ParentID] = append(childrenByParent[*c.ParentID], c)
	}
	for i := range roots {
		children := childrenByParent[roots[i].ID]
		roots[i].Children = children
		for _, child := range children {
			roots[i].ListingCount += child.ListingCount
		}
	}
	return roots
}

// FindBySlug resolves one category for listing filters.
func (s *Service) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Create inserts a category, deriving the slug from the name when absent.
// The public API never mutates the taxonomy.
func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return Category{}, fmt.Errorf("%w: category name required", shared.ErrValidation)
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if existing, err := s.repo.FindBySlug(ctx, category.Slug); err == nil && existing != nil {
		return Category{}, fmt.Errorf("%w: slug %s", shared.ErrDuplicate, category.Slug)
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return Category{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		// Stale for at most one TTL window.
		return created, nil
	}
	return created, nil
}
