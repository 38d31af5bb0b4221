// Package view keeps the client-side state of the fridge screen: a cache of items reconciled
// from server answers, the decorative door, the error banner and the catalog search.
package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shinyyama/virtual-fridge/internal/apiclient"
)

type Inventory interface {
	Health(ctx context.Context) (*apiclient.Health, error)
	ListItems(ctx context.Context) ([]apiclient.Item, error)
	CreateItem(ctx context.Context, name string, isInFridge *bool) (*apiclient.Item, error)
	ToggleItem(ctx context.Context, id uint64) (*apiclient.Item, error)
	DeleteItem(ctx context.Context, id uint64) (*apiclient.DeleteResult, error)
}

type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (*apiclient.Statistics, error)
	Search(ctx context.Context, query string) (*apiclient.SearchResult, error)
}

type search struct {
	query string
	items []apiclient.Item
}

// Fridge never invents ids or timestamps: every mutation applies the row the server returned.
// Load is the only full refresh.
type Fridge struct {
	inventory Inventory
	catalog   Catalog

	mu         sync.Mutex
	items      []apiclient.Item
	doorOpen   bool
	errMsg     string
	search     *search
	categories []string
	stats      *apiclient.Statistics
	health     *apiclient.Health
}

func NewFridge(inventory Inventory, catalog Catalog) *Fridge {
	return &Fridge{inventory: inventory, catalog: catalog, items: []apiclient.Item{}}
}

func (f *Fridge) Load(ctx context.Context) error {
	items, err := f.inventory.ListItems(ctx)
	if err != nil {
		return f.fail("load items", err)
	}
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

// CheckHealth asks the inventory API how it and its store are doing. A degraded answer is kept for
// display and also raises the banner.
func (f *Fridge) CheckHealth(ctx context.Context) error {
	h, err := f.inventory.Health(ctx)
	f.mu.Lock()
	f.health = nil
	if h != nil && h.Status != "" {
		f.health = h
	}
	f.mu.Unlock()
	if err != nil {
		return f.fail("check health", err)
	}
	return nil
}

func (f *Fridge) Health() *apiclient.Health {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.health
}

// Add creates an item in the fridge. A blank name is ignored without asking the server.
func (f *Fridge) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	it, err := f.inventory.CreateItem(ctx, name, nil)
	if err != nil {
		return f.fail("add item", err)
	}
	f.mu.Lock()
	f.items = append([]apiclient.Item{*it}, f.items...)
	f.mu.Unlock()
	return nil
}

func (f *Fridge) Toggle(ctx context.Context, id uint64) error {
	it, err := f.inventory.ToggleItem(ctx, id)
	if err != nil {
		return f.fail("move item", err)
	}
	f.mu.Lock()
	replace(f.items, *it)
	if f.search != nil {
		replace(f.search.items, *it)
	}
	f.mu.Unlock()
	return nil
}

func (f *Fridge) Remove(ctx context.Context, id uint64) error {
	res, err := f.inventory.DeleteItem(ctx, id)
	if err != nil {
		return f.fail("delete item", err)
	}
	gone := res.DeletedItem.ID
	if gone == 0 {
		gone = id
	}
	f.mu.Lock()
	f.items = without(f.items, gone)
	if f.search != nil {
		f.search.items = without(f.search.items, gone)
	}
	f.mu.Unlock()
	return nil
}

func (f *Fridge) ToggleDoor() {
	f.mu.Lock()
	f.doorOpen = !f.doorOpen
	f.mu.Unlock()
}

func (f *Fridge) DoorOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doorOpen
}

// Search replaces the displayed list with the catalog's matches until ClearSearch.
// A blank query clears the search instead.
func (f *Fridge) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		f.ClearSearch()
		return nil
	}
	res, err := f.catalog.Search(ctx, query)
	if err != nil {
		return f.fail("search", err)
	}
	f.mu.Lock()
	f.search = &search{query: query, items: res.Items}
	f.mu.Unlock()
	return nil
}

// SearchCategory runs a search for one of the loaded category shortcuts, ignoring case.
func (f *Fridge) SearchCategory(ctx context.Context, slug string) error {
	f.mu.Lock()
	known := ""
	for _, c := range f.categories {
		if strings.EqualFold(c, strings.TrimSpace(slug)) {
			known = c
			break
		}
	}
	f.mu.Unlock()
	if known == "" {
		return f.fail("search", fmt.Errorf("unknown category %q", slug))
	}
	return f.Search(ctx, known)
}

func (f *Fridge) ClearSearch() {
	f.mu.Lock()
	f.search = nil
	f.mu.Unlock()
}

// Searching returns the active query, if any.
func (f *Fridge) Searching() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.search == nil {
		return "", false
	}
	return f.search.query, true
}

func (f *Fridge) LoadCategories(ctx context.Context) error {
	cats, err := f.catalog.Categories(ctx)
	if err != nil {
		return f.fail("load categories", err)
	}
	f.mu.Lock()
	f.categories = cats
	f.mu.Unlock()
	return nil
}

func (f *Fridge) Categories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.categories...)
}

// LoadStatistics fetches counts from the catalog; they are not derived from the local cache.
func (f *Fridge) LoadStatistics(ctx context.Context) error {
	stats, err := f.catalog.Statistics(ctx)
	if err != nil {
		return f.fail("load statistics", err)
	}
	f.mu.Lock()
	f.stats = stats
	f.mu.Unlock()
	return nil
}

func (f *Fridge) Statistics() *apiclient.Statistics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Items is what the screen shows: search matches while searching, the cache otherwise.
func (f *Fridge) Items() []apiclient.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiclient.Item(nil), f.displayed()...)
}

func (f *Fridge) InFridge() []apiclient.Item {
	return f.filter(true)
}

func (f *Fridge) Outside() []apiclient.Item {
	return f.filter(false)
}

func (f *Fridge) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Fridge) DismissError() {
	f.mu.Lock()
	f.errMsg = ""
	f.mu.Unlock()
}

func (f *Fridge) displayed() []apiclient.Item {
	if f.search != nil {
		return f.search.items
	}
	return f.items
}

func (f *Fridge) filter(inFridge bool) []apiclient.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []apiclient.Item{}
	for _, it := range f.displayed() {
		if it.IsInFridge == inFridge {
			out = append(out, it)
		}
	}
	return out
}

func (f *Fridge) fail(action string, err error) error {
	msg := fmt.Sprintf("Could not %s: %s", action, describe(err))
	f.mu.Lock()
	f.errMsg = msg
	f.mu.Unlock()
	return err
}

func describe(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("server answered %d", apiErr.Status)
	}
	return err.Error()
}

func replace(items []apiclient.Item, it apiclient.Item) {
	for i := range items {
		if items[i].ID == it.ID {
			if it.Category == "" {
				it.Category = items[i].Category
			}
			items[i] = it
			return
		}
	}
}

func without(items []apiclient.Item, id uint64) []apiclient.Item {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
