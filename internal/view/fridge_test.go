package view

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shinyyama/virtual-fridge/internal/apiclient"
	"github.com/shinyyama/virtual-fridge/internal/category"
	"github.com/shinyyama/virtual-fridge/internal/dbtest"
	"github.com/shinyyama/virtual-fridge/internal/server"
)

// newBackends starts the inventory API and the catalog service on separate origins over one store.
func newBackends(t *testing.T) *apiclient.Client {
	t.Helper()
	dict, err := category.LoadDictionary("")
	if err != nil {
		t.Fatal(err)
	}
	conn := dbtest.Open(t)
	api := httptest.NewServer(server.New(conn, server.Options{}).Handler())
	t.Cleanup(api.Close)
	catalog := httptest.NewServer(server.NewCatalog(conn, category.NewResolver(dict, nil, nil), server.Options{}).Handler())
	t.Cleanup(catalog.Close)
	return apiclient.New(api.URL, catalog.URL, nil)
}

func names(items []apiclient.Item) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return strings.Join(out, ",")
}

func TestFridgeLifecycle(t *testing.T) {
	client := newBackends(t)
	ctx := context.Background()
	f := NewFridge(client, client)

	if err := f.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Items()) != 0 {
		t.Fatalf("items=%v", f.Items())
	}

	for _, n := range []string{"Milk", "Eggs", "  Sausage "} {
		if err := f.Add(ctx, n); err != nil {
			t.Fatalf("add %q: %v", n, err)
		}
	}
	if got := names(f.InFridge()); got != "Sausage,Eggs,Milk" {
		t.Fatalf("in fridge=%s", got)
	}

	sausage := f.Items()[0]
	if err := f.Toggle(ctx, sausage.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := names(f.Outside()); got != "Sausage" {
		t.Fatalf("outside=%s", got)
	}
	if got := names(f.InFridge()); got != "Eggs,Milk" {
		t.Fatalf("in fridge=%s", got)
	}

	if err := f.Remove(ctx, sausage.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := names(f.Items()); got != "Eggs,Milk" {
		t.Fatalf("items=%s", got)
	}

	// the cache agrees with a fresh fetch
	local := f.Items()
	if err := f.Load(ctx); err != nil {
		t.Fatal(err)
	}
	fresh := f.Items()
	if len(local) != len(fresh) {
		t.Fatalf("local=%v fresh=%v", local, fresh)
	}
	for i := range local {
		if local[i].ID != fresh[i].ID || local[i].IsInFridge != fresh[i].IsInFridge || !local[i].CreatedAt.Equal(fresh[i].CreatedAt) {
			t.Fatalf("diverged at %d: local=%+v fresh=%+v", i, local[i], fresh[i])
		}
	}
}

func TestBlankAddIsIgnored(t *testing.T) {
	inv := &failingInventory{}
	f := NewFridge(inv, nil)
	if err := f.Add(context.Background(), "   "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if inv.calls != 0 {
		t.Fatalf("server called %d times", inv.calls)
	}
}

func TestErrorsKeepItemsAndCanBeDismissed(t *testing.T) {
	client := newBackends(t)
	ctx := context.Background()
	f := NewFridge(client, client)
	if err := f.Add(ctx, "Cheese"); err != nil {
		t.Fatal(err)
	}

	err := f.Toggle(ctx, 999)
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("err=%v", err)
	}
	if msg := f.Err(); !strings.Contains(msg, "Item not found") {
		t.Fatalf("banner=%q", msg)
	}
	if got := names(f.Items()); got != "Cheese" {
		t.Fatalf("items lost: %s", got)
	}
	f.DismissError()
	if f.Err() != "" {
		t.Fatalf("banner not dismissed: %q", f.Err())
	}
}

func TestUnreachableServer(t *testing.T) {
	client := apiclient.New("http://127.0.0.1:1", "http://127.0.0.1:1", nil)
	f := NewFridge(client, client)
	if err := f.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(f.Err(), "Could not load items") {
		t.Fatalf("banner=%q", f.Err())
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Could not load items") {
		t.Fatalf("render:\n%s", buf.String())
	}
}

func TestSearchReplacesListUntilCleared(t *testing.T) {
	client := newBackends(t)
	ctx := context.Background()
	f := NewFridge(client, client)
	for _, n := range []string{"Milk", "Sausage", "Chocolate milk"} {
		if err := f.Add(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.Search(ctx, "milk"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if q, ok := f.Searching(); !ok || q != "milk" {
		t.Fatalf("searching=%q,%v", q, ok)
	}
	if got := names(f.Items()); got != "Chocolate milk,Milk" {
		t.Fatalf("search items=%s", got)
	}
	for _, it := range f.Items() {
		if it.Category != "dairy" {
			t.Fatalf("category=%q", it.Category)
		}
	}

	// toggling while searching patches both lists
	milk := f.Items()[1]
	if err := f.Toggle(ctx, milk.ID); err != nil {
		t.Fatal(err)
	}
	if got := names(f.Outside()); got != "Milk" {
		t.Fatalf("outside while searching=%s", got)
	}
	if f.Items()[1].Category != "dairy" {
		t.Fatal("category dropped by toggle")
	}

	f.ClearSearch()
	if _, ok := f.Searching(); ok {
		t.Fatal("still searching")
	}
	if got := names(f.Items()); got != "Chocolate milk,Sausage,Milk" {
		t.Fatalf("items=%s", got)
	}
	if got := names(f.Outside()); got != "Milk" {
		t.Fatalf("outside=%s", got)
	}

	if err := f.Search(ctx, "  "); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Searching(); ok {
		t.Fatal("blank search should clear")
	}
}

func TestCategoriesAndStatistics(t *testing.T) {
	client := newBackends(t)
	ctx := context.Background()
	f := NewFridge(client, client)
	for _, n := range []string{"Milk", "Sausage"} {
		if err := f.Add(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.LoadCategories(ctx); err != nil {
		t.Fatal(err)
	}
	if err := f.SearchCategory(ctx, "meat"); err != nil {
		t.Fatalf("search category: %v", err)
	}
	if got := names(f.Items()); got != "Sausage" {
		t.Fatalf("items=%s", got)
	}
	if err := f.SearchCategory(ctx, "Dairy"); err != nil {
		t.Fatalf("mixed case category: %v", err)
	}
	if q, ok := f.Searching(); !ok || q != "dairy" {
		t.Fatalf("searching=%q,%v", q, ok)
	}
	if got := names(f.Items()); got != "Milk" {
		t.Fatalf("items=%s", got)
	}
	if err := f.SearchCategory(ctx, "spaceships"); err == nil {
		t.Fatal("expected unknown category error")
	}
	f.DismissError()
	f.ClearSearch()

	if err := f.LoadStatistics(ctx); err != nil {
		t.Fatal(err)
	}
	s := f.Statistics()
	if s.TotalProducts != 2 || s.InFridge != 2 || s.Categories["dairy"].Total != 1 {
		t.Fatalf("stats=%+v", s)
	}
}

func TestDoorAndRender(t *testing.T) {
	client := newBackends(t)
	ctx := context.Background()
	f := NewFridge(client, client)
	if err := f.Add(ctx, "Milk"); err != nil {
		t.Fatal(err)
	}
	if err := f.Add(ctx, "Sausage"); err != nil {
		t.Fatal(err)
	}
	if err := f.Toggle(ctx, f.Items()[0].ID); err != nil {
		t.Fatal(err)
	}

	var closed bytes.Buffer
	if err := f.Render(&closed); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(closed.String(), "Milk") {
		t.Fatalf("closed door shows inside:\n%s", closed.String())
	}
	if !strings.Contains(closed.String(), "Door closed, 1 inside") || !strings.Contains(closed.String(), "Sausage") {
		t.Fatalf("closed render:\n%s", closed.String())
	}

	f.ToggleDoor()
	if !f.DoorOpen() {
		t.Fatal("door should be open")
	}
	var open bytes.Buffer
	if err := f.Render(&open); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(open.String(), "In the fridge:\n  #1 Milk") {
		t.Fatalf("open render:\n%s", open.String())
	}
	f.ToggleDoor()
	if f.DoorOpen() {
		t.Fatal("door should be closed")
	}
}

func TestCheckHealth(t *testing.T) {
	client := newBackends(t)
	f := NewFridge(client, client)
	if err := f.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if h := f.Health(); h == nil || h.Status != "OK" || h.Database != "connected" {
		t.Fatalf("health=%+v", h)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Server: OK, database connected") {
		t.Fatalf("render:\n%s", buf.String())
	}
}

func TestCheckHealthDegraded(t *testing.T) {
	api := httptest.NewServer(server.New(nil, server.Options{}).Handler())
	t.Cleanup(api.Close)
	client := apiclient.New(api.URL, api.URL, nil)
	f := NewFridge(client, client)

	if err := f.CheckHealth(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if h := f.Health(); h == nil || h.Status != "ERROR" || h.Database != "disconnected" {
		t.Fatalf("health=%+v", h)
	}
	if !strings.HasPrefix(f.Err(), "Could not check health") {
		t.Fatalf("banner=%q", f.Err())
	}
}

func TestCheckHealthUnreachable(t *testing.T) {
	client := apiclient.New("http://127.0.0.1:1", "http://127.0.0.1:1", nil)
	f := NewFridge(client, client)
	if err := f.CheckHealth(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if f.Health() != nil {
		t.Fatalf("health=%+v", f.Health())
	}
}

type failingInventory struct {
	calls int
}

func (f *failingInventory) Health(context.Context) (*apiclient.Health, error) {
	f.calls++
	return nil, errors.New("boom")
}

func (f *failingInventory) ListItems(context.Context) ([]apiclient.Item, error) {
	f.calls++
	return nil, errors.New("boom")
}

func (f *failingInventory) CreateItem(context.Context, string, *bool) (*apiclient.Item, error) {
	f.calls++
	return nil, errors.New("boom")
}

func (f *failingInventory) ToggleItem(context.Context, uint64) (*apiclient.Item, error) {
	f.calls++
	return nil, errors.New("boom")
}

func (f *failingInventory) DeleteItem(context.Context, uint64) (*apiclient.DeleteResult, error) {
	f.calls++
	return nil, errors.New("boom")
}
