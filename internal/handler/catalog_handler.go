package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/virtual-fridge/internal/service"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type CategorizedItemResponse struct {
	ItemResponse
	Category string `json:"category"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type CategoryStatsResponse struct {
	Total    int `json:"total"`
	InFridge int `json:"in_fridge"`
}

type StatisticsResponse struct {
	TotalProducts int                              `json:"total_products"`
	InFridge      int                              `json:"in_fridge"`
	Outside       int                              `json:"outside"`
	Categories    map[string]CategoryStatsResponse `json:"categories"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	SearchQuery string                    `json:"search_query"`
	FoundCount  int                       `json:"found_count"`
	Items       []CategorizedItemResponse `json:"items"`
}

func (h *CatalogHandler) Health(c echo.Context) error {
	return healthResponse(c, h.svc.Health(c.Request().Context()))
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: h.svc.Categories(c.Request().Context())})
}

func (h *CatalogHandler) Statistics(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return storeError(c, "statistics", err)
	}
	resp := StatisticsResponse{
		TotalProducts: stats.TotalProducts,
		InFridge:      stats.InFridge,
		Outside:       stats.Outside,
		Categories:    make(map[string]CategoryStatsResponse, len(stats.Categories)),
	}
	for slug, cs := range stats.Categories {
		resp.Categories[slug] = CategoryStatsResponse{Total: cs.Total, InFridge: cs.InFridge}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	res, err := h.svc.Search(c.Request().Context(), req.Query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Query is required"))
		}
		return storeError(c, "search", err)
	}
	resp := SearchResponse{
		SearchQuery: res.Query,
		FoundCount:  len(res.Items),
		Items:       make([]CategorizedItemResponse, 0, len(res.Items)),
	}
	for i := range res.Items {
		resp.Items = append(resp.Items, CategorizedItemResponse{
			ItemResponse: toItemResponse(&res.Items[i].Item),
			Category:     res.Items[i].Category,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DatabaseItems(c echo.Context) error {
	items, err := h.svc.AllItems(c.Request().Context())
	if err != nil {
		return storeError(c, "database_items", err)
	}
	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
