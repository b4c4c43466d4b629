package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grishakov/retail-platform/internal/service"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("bad input: %w", service.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("gone: %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("nope: %w", service.ErrAccessDenied), http.StatusForbidden},
		{fmt.Errorf("taken: %w", service.ErrConflict), http.StatusConflict},
		{fmt.Errorf("out: %w", service.ErrInsufficientStock), http.StatusConflict},
		{fmt.Errorf("too many: %w", service.ErrStockExceeded), http.StatusConflict},
	}
	for _, tt := range tests {
		var he *echo.HTTPError
		require.ErrorAs(t, httpError(tt.err), &he)
		assert.Equal(t, tt.code, he.Code)
	}

	// errors outside the taxonomy pass through untouched
	plain := errors.New("boom")
	assert.Equal(t, plain, httpError(plain))
}
