package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shinyyama/virtual-fridge/internal/db"
	"github.com/shinyyama/virtual-fridge/internal/model"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	List(ctx context.Context) ([]model.Item, error)
	Search(ctx context.Context, query string) ([]model.Item, error)
	Toggle(ctx context.Context, id uint64) (*model.Item, error)
	Delete(ctx context.Context, id uint64) (*model.Item, error)
	Ping(ctx context.Context) error
}

type itemRepository struct {
	db *gorm.DB
}

var ErrDBNotReady = errors.New("database not initialized")

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) List(ctx context.Context) ([]model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	items := []model.Item{}
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Search(ctx context.Context, query string) ([]model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if r.db.Dialector.Name() == "sqlite" {
		return r.searchFolded(ctx, query)
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	items := []model.Item{}
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Toggle flips is_in_fridge in one UPDATE and re-reads the row inside the same transaction.
func (r *itemRepository) Toggle(ctx context.Context, id uint64) (*model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Item{}).
			Where("id = ?", id).
			Update("is_in_fridge", gorm.Expr("NOT is_in_fridge"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the row and returns what it looked like before removal.
func (r *itemRepository) Delete(ctx context.Context, id uint64) (*model.Item, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// removed by a concurrent request between the read and the delete
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// searchFolded matches in Go because sqlite's LOWER only folds ASCII.
func (r *itemRepository) searchFolded(ctx context.Context, query string) ([]model.Item, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	items := []model.Item{}
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *itemRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return db.Ping(ctx, r.db)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
