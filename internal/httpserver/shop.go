package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grishakov/retail-platform/internal/service"
	"github.com/grishakov/retail-platform/internal/transport"
)

type ShopHandler struct {
	Svc *service.ShopService
}

func (h *ShopHandler) CreateShop(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.CreateShopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	shop, err := h.Svc.CreateShop(c.Request().Context(), user, service.CreateShopInput{
		Name:            req.Name,
		Address:         req.Address,
		EstablishedYear: req.EstablishedYear,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, shop)
}

func (h *ShopHandler) GetMyShop(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	shop, err := h.Svc.GetShopByAdmin(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) GetShopBySlug(c echo.Context) error {
	shop, err := h.Svc.GetShopBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, shop)
}
