package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grishakov/retail-platform/internal/service"
)

// httpError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy falls through as a 500 via echo's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrStockExceeded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
