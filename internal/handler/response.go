package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: message,
		Code:  code,
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func healthResponse(c echo.Context, err error) error {
	if err != nil {
		logFailure(c, "health", err)
		return c.JSON(http.StatusInternalServerError, HealthResponse{Status: "ERROR", Database: "disconnected"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "OK", Database: "connected"})
}

var errInvalidID = errors.New("invalid id")

// parseID accepts positive integers only; the store never assigns 0.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}
