package main

import (
	"context"
	"fmt"
	"log"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shinyyama/virtual-fridge/internal/config"
	"github.com/shinyyama/virtual-fridge/internal/db"
	"github.com/shinyyama/virtual-fridge/internal/model"
	"github.com/shinyyama/virtual-fridge/internal/repository"
	"github.com/shinyyama/virtual-fridge/internal/service"
	"gorm.io/gorm"
)

type seedItem struct {
	Name       string
	IsInFridge bool
}

type seedOptions struct {
	Force bool `env:"FORCE_SEED" envDefault:"false"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var opts seedOptions
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("load seed options: %w", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close(conn)
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	n, err := seed(ctx, conn, opts.Force)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Printf("items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}
	log.Printf("seeded %d items", n)
	return nil
}

func buildSeedItems() []seedItem {
	return []seedItem{
		{Name: "Milk", IsInFridge: true},
		{Name: "Eggs", IsInFridge: true},
		{Name: "Cheese", IsInFridge: true},
		{Name: "Sausage", IsInFridge: false},
		{Name: "Vegetables", IsInFridge: false},
	}
}

// seed fills an empty table and reports how many rows it wrote. With force the table is wiped first.
func seed(ctx context.Context, conn *gorm.DB, force bool) (int, error) {
	items := buildSeedItems()
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.Item{}).Count(&cnt).Error; err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if cnt > 0 && !force {
			items = nil
			return nil
		}
		if cnt > 0 {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Item{}).Error; err != nil {
				return fmt.Errorf("clear items: %w", err)
			}
		}

		svc := service.NewItemService(repository.NewItemRepository(tx))
		for _, it := range items {
			inFridge := it.IsInFridge
			if _, err := svc.Create(ctx, it.Name, &inFridge); err != nil {
				return fmt.Errorf("insert item %q: %w", it.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
