package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shinyyama/virtual-fridge/internal/model"
	"github.com/shinyyama/virtual-fridge/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrNameRequired = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrNameTooLong  = fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, model.MaxNameLength)
)

type ItemService interface {
	Health(ctx context.Context) error
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, name string, isInFridge *bool) (*model.Item, error)
	Toggle(ctx context.Context, id uint64) (*model.Item, error)
	Delete(ctx context.Context, id uint64) (*model.Item, error)
}

type itemService struct {
	repo repository.ItemRepository
}

func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

func (s *itemService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *itemService) List(ctx context.Context) ([]model.Item, error) {
	return s.repo.List(ctx)
}

// Create stores a new item. A nil isInFridge means the item goes into the fridge.
func (s *itemService) Create(ctx context.Context, name string, isInFridge *bool) (*model.Item, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	inFridge := true
	if isInFridge != nil {
		inFridge = *isInFridge
	}
	item := &model.Item{
		Name:       name,
		IsInFridge: inFridge,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Toggle(ctx context.Context, id uint64) (*model.Item, error) {
	item, err := s.repo.Toggle(ctx, id)
	return item, mapNotFound(err)
}

func (s *itemService) Delete(ctx context.Context, id uint64) (*model.Item, error) {
	item, err := s.repo.Delete(ctx, id)
	return item, mapNotFound(err)
}

// NormalizeName trims the name and checks it against the column limits.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
