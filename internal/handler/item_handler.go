package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/virtual-fridge/internal/model"
	"github.com/shinyyama/virtual-fridge/internal/reqctx"
	"github.com/shinyyama/virtual-fridge/internal/service"
)

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type ItemResponse struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	IsInFridge bool   `json:"is_in_fridge"`
	CreatedAt  string `json:"created_at"`
}

type DeleteItemResponse struct {
	Message     string       `json:"message"`
	DeletedItem ItemResponse `json:"deletedItem"`
}

type CreateItemRequest struct {
	Name       string `json:"name"`
	IsInFridge *bool  `json:"isInFridge"`
}

func (h *ItemHandler) Health(c echo.Context) error {
	return healthResponse(c, h.svc.Health(c.Request().Context()))
}

func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return storeError(c, "list", err)
	}
	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Create(c.Request().Context(), req.Name, req.IsInFridge)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Name is required"))
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return storeError(c, "create", err)
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Toggle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	item, err := h.svc.Toggle(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "Item not found"))
		}
		return storeError(c, "toggle", err)
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	item, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "Item not found"))
		}
		return storeError(c, "delete", err)
	}
	return c.JSON(http.StatusOK, DeleteItemResponse{
		Message:     "Item deleted",
		DeletedItem: toItemResponse(item),
	})
}

func toItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		IsInFridge: item.IsInFridge,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
	}
}

// storeError hides the cause from the client; it only goes to the log.
func storeError(c echo.Context, op string, err error) error {
	logFailure(c, op, err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "Database error"))
}

func logFailure(c echo.Context, op string, err error) {
	log.Printf("[store] rid=%s op=%s path=%s err=%v", reqctx.RID(c.Request().Context()), op, c.Path(), err)
}
