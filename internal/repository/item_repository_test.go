package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shinyyama/virtual-fridge/internal/dbtest"
	"github.com/shinyyama/virtual-fridge/internal/model"
	"gorm.io/gorm"
)

func seed(t *testing.T, repo ItemRepository, names ...string) []model.Item {
	t.Helper()
	out := make([]model.Item, 0, len(names))
	for _, n := range names {
		it := model.Item{Name: n, IsInFridge: true}
		if err := repo.Create(context.Background(), &it); err != nil {
			t.Fatalf("create %q: %v", n, err)
		}
		out = append(out, it)
	}
	return out
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	it := model.Item{Name: "Milk", IsInFridge: false}
	if err := repo.Create(context.Background(), &it); err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID == 0 {
		t.Fatal("id not assigned")
	}
	if it.CreatedAt.IsZero() {
		t.Fatal("created_at not assigned")
	}
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].IsInFridge {
		t.Fatalf("stored=%+v", items)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	seed(t, repo, "A", "B", "C")

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{}
	for _, it := range items {
		got = append(got, it.Name)
	}
	want := []string{"C", "B", "A"}
	if len(got) != len(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items=%v", items)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	it := seed(t, repo, "Eggs")[0]

	once, err := repo.Toggle(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if once.IsInFridge {
		t.Fatal("expected out of fridge after first toggle")
	}
	if once.ID != it.ID || once.Name != "Eggs" {
		t.Fatalf("toggle returned %+v", once)
	}
	twice, err := repo.Toggle(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !twice.IsInFridge {
		t.Fatal("expected back in fridge after second toggle")
	}
}

func TestToggleMissing(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	other := seed(t, repo, "Cheese")[0]

	_, err := repo.Toggle(context.Background(), other.ID+100)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err=%v", err)
	}
	items, _ := repo.List(context.Background())
	if len(items) != 1 || !items[0].IsInFridge {
		t.Fatalf("other row changed: %+v", items)
	}
}

func TestDelete(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	seeded := seed(t, repo, "Sausage", "Vegetables")

	deleted, err := repo.Delete(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Name != "Sausage" || deleted.ID != seeded[0].ID {
		t.Fatalf("deleted=%+v", deleted)
	}
	items, _ := repo.List(context.Background())
	if len(items) != 1 || items[0].ID != seeded[1].ID {
		t.Fatalf("remaining=%+v", items)
	}
	if _, err := repo.Delete(context.Background(), seeded[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
}

func TestSearch(t *testing.T) {
	repo := NewItemRepository(dbtest.Open(t))
	seed(t, repo, "Milk", "Oat milk", "Cheese", "100%_juice", "Молоко", "Сыр", "Яйца")

	tests := []struct {
		query string
		want  int
	}{
		{"milk", 2},
		{"MILK", 2},
		{"chee", 1},
		{"%", 1},
		{"_", 1},
		{"bread", 0},
		{"Молоко", 1},
		{"молоко", 1},
		{"МОЛ", 1},
		{"сыр", 1},
		{"яйца", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			items, err := repo.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(items) != tt.want {
				t.Fatalf("got=%d want=%d (%+v)", len(items), tt.want, items)
			}
		})
	}
}

func TestPing(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewItemRepository(conn)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatal(err)
	}
	_ = sqlDB.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatal("ping on a closed store should fail")
	}
}

func TestNilDB(t *testing.T) {
	repo := NewItemRepository(nil)
	ctx := context.Background()
	if err := repo.Ping(ctx); !errors.Is(err, ErrDBNotReady) {
		t.Fatalf("ping err=%v", err)
	}
	if _, err := repo.List(ctx); !errors.Is(err, ErrDBNotReady) {
		t.Fatalf("list err=%v", err)
	}
	if err := repo.Create(ctx, &model.Item{Name: "x"}); !errors.Is(err, ErrDBNotReady) {
		t.Fatalf("create err=%v", err)
	}
	if _, err := repo.Toggle(ctx, 1); !errors.Is(err, ErrDBNotReady) {
		t.Fatalf("toggle err=%v", err)
	}
	if _, err := repo.Delete(ctx, 1); !errors.Is(err, ErrDBNotReady) {
		t.Fatalf("delete err=%v", err)
	}
}
