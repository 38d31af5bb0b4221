// Package apiclient talks to the inventory API and the catalog service over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Item struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	IsInFridge bool      `json:"is_in_fridge"`
	CreatedAt  time.Time `json:"created_at"`
	Category   string    `json:"category,omitempty"`
}

type DeleteResult struct {
	Message     string `json:"message"`
	DeletedItem Item   `json:"deletedItem"`
}

type CategoryStats struct {
	Total    int `json:"total"`
	InFridge int `json:"in_fridge"`
}

type Statistics struct {
	TotalProducts int                      `json:"total_products"`
	InFridge      int                      `json:"in_fridge"`
	Outside       int                      `json:"outside"`
	Categories    map[string]CategoryStats `json:"categories"`
}

type SearchResult struct {
	SearchQuery string `json:"search_query"`
	FoundCount  int    `json:"found_count"`
	Items       []Item `json:"items"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// APIError is a non-2xx answer. Message is the server's "error" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type Client struct {
	apiURL     string
	catalogURL string
	httpClient *http.Client
}

// New returns a client for the inventory API at apiURL and the catalog service at catalogURL.
// httpClient may be nil.
func New(apiURL, catalogURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		catalogURL: strings.TrimRight(catalogURL, "/"),
		httpClient: httpClient,
	}
}

// Health returns the decoded status even when the server reports an error.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, c.apiURL+"/api/health", nil, &h)
	return &h, err
}

func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, name string, isInFridge *bool) (*Item, error) {
	body := struct {
		Name       string `json:"name"`
		IsInFridge *bool  `json:"isInFridge,omitempty"`
	}{Name: name, IsInFridge: isInFridge}
	var it Item
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/api/items", body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) ToggleItem(ctx context.Context, id uint64) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/api/items/%d/toggle", c.apiURL, id), nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) DeleteItem(ctx context.Context, id uint64) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/api/items/%d", c.apiURL, id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var res struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, c.catalogURL+"/categories", nil, &res); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var s Statistics
	if err := c.do(ctx, http.MethodGet, c.catalogURL+"/statistics", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	body := struct {
		Query string `json:"query"`
	}{Query: query}
	var res SearchResult
	if err := c.do(ctx, http.MethodPost, c.catalogURL+"/search-products", body, &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []Item{}
	}
	return &res, nil
}

func (c *Client) DatabaseItems(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := c.do(ctx, http.MethodGet, c.catalogURL+"/database-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// do sends in as JSON (when non-nil) and decodes the answer into out. On a non-2xx status it still
// decodes the body into out, then returns an *APIError.
func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Message = e.Error
		}
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}
