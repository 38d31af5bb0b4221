package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/virtual-fridge/internal/handler"
	"github.com/shinyyama/virtual-fridge/internal/repository"
	"github.com/shinyyama/virtual-fridge/internal/reqctx"
	"github.com/shinyyama/virtual-fridge/internal/service"
	"gorm.io/gorm"
)

type Options struct {
	// AllowedOrigins are accepted by CORS in addition to any localhost origin.
	AllowedOrigins []string
}

type Server struct {
	e *echo.Echo
}

// New builds the inventory API. A nil db keeps the server up in degraded mode: health reports
// disconnected and every item route answers 500.
func New(db *gorm.DB, opts Options) *Server {
	e := newEcho(opts)

	itemRepo := repository.NewItemRepository(db)
	itemSvc := service.NewItemService(itemRepo)
	itemHandler := handler.NewItemHandler(itemSvc)

	api := e.Group("/api")
	api.GET("/health", itemHandler.Health)
	api.GET("/items", itemHandler.List)
	api.POST("/items", itemHandler.Create)
	api.PATCH("/items/:id/toggle", itemHandler.Toggle)
	api.DELETE("/items/:id", itemHandler.Delete)

	return &Server{e: e}
}

// NewCatalog builds the search and statistics front-end. It reads the same table as New.
func NewCatalog(db *gorm.DB, categories service.Categorizer, opts Options) *Server {
	e := newEcho(opts)

	itemRepo := repository.NewItemRepository(db)
	catalogSvc := service.NewCatalogService(itemRepo, categories)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	e.GET("/health", catalogHandler.Health)
	e.GET("/categories", catalogHandler.Categories)
	e.GET("/statistics", catalogHandler.Statistics)
	e.POST("/search-products", catalogHandler.SearchProducts)
	e.GET("/database-items", catalogHandler.DatabaseItems)

	return &Server{e: e}
}

func newEcho(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, rid string) {
			req := c.Request()
			c.SetRequest(req.WithContext(reqctx.WithRID(req.Context(), rid)))
		},
	}))
	e.Use(middleware.Logger())
	allowed := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			return originAllowed(origin, allowed), nil
		},
	}))
	return e
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	low := strings.ToLower(origin)
	u, err := url.Parse(low)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if host := u.Hostname(); host == "localhost" || host == "127.0.0.1" {
		return true
	}
	_, ok := allowed[low]
	return ok
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}
