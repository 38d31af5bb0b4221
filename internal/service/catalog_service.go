package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinyyama/virtual-fridge/internal/model"
	"github.com/shinyyama/virtual-fridge/internal/repository"
)

var ErrQueryRequired = fmt.Errorf("%w: query is required", ErrInvalidInput)

// Categorizer maps product names to category slugs. category.Resolver implements it.
type Categorizer interface {
	Resolve(ctx context.Context, name string) string
	Slugs() []string
	Has(slug string) bool
}

type CategorizedItem struct {
	model.Item
	Category string
}

type CategoryStats struct {
	Total    int
	InFridge int
}

type Statistics struct {
	TotalProducts int
	InFridge      int
	Outside       int
	Categories    map[string]CategoryStats
}

type SearchResult struct {
	Query string
	Items []CategorizedItem
}

// CatalogService is the read-only search and statistics front-end over the item store.
type CatalogService interface {
	Health(ctx context.Context) error
	Categories(ctx context.Context) []string
	Statistics(ctx context.Context) (*Statistics, error)
	Search(ctx context.Context, query string) (*SearchResult, error)
	AllItems(ctx context.Context) ([]model.Item, error)
}

type catalogService struct {
	repo       repository.ItemRepository
	categories Categorizer
}

func NewCatalogService(repo repository.ItemRepository, categories Categorizer) CatalogService {
	return &catalogService{repo: repo, categories: categories}
}

func (s *catalogService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *catalogService) Categories(_ context.Context) []string {
	return s.categories.Slugs()
}

func (s *catalogService) AllItems(ctx context.Context) ([]model.Item, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Statistics(ctx context.Context) (*Statistics, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{Categories: map[string]CategoryStats{}}
	for _, it := range s.categorize(ctx, items) {
		stats.TotalProducts++
		cs := stats.Categories[it.Category]
		cs.Total++
		if it.IsInFridge {
			stats.InFridge++
			cs.InFridge++
		} else {
			stats.Outside++
		}
		stats.Categories[it.Category] = cs
	}
	return stats, nil
}

// Search matches names by substring. A query equal to a category slug also returns every item in that category.
func (s *catalogService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	slug := strings.ToLower(query)
	if !s.categories.Has(slug) {
		items, err := s.repo.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Query: query, Items: s.categorize(ctx, items)}, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := []CategorizedItem{}
	for _, it := range s.categorize(ctx, items) {
		if it.Category == slug || strings.Contains(strings.ToLower(it.Name), slug) {
			matched = append(matched, it)
		}
	}
	return &SearchResult{Query: query, Items: matched}, nil
}

func (s *catalogService) categorize(ctx context.Context, items []model.Item) []CategorizedItem {
	out := make([]CategorizedItem, 0, len(items))
	for _, it := range items {
		out = append(out, CategorizedItem{Item: it, Category: s.categories.Resolve(ctx, it.Name)})
	}
	return out
}
