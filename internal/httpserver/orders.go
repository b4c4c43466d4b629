package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/service"
	"github.com/grishakov/retail-platform/internal/transport"
	"github.com/grishakov/retail-platform/internal/util"
)

type OrderHandler struct {
	Svc *service.CheckoutService
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Checkout(c.Request().Context(), user, service.CheckoutInput{
		CartItemIDs:     req.CartItemIDs,
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		Email:           req.Email,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.ConfirmPayment(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req transport.AdvanceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.AdvanceStatus(c.Request().Context(), user, id, models.OrderStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := orderID(c)
	if err != nil {
		return err
	}

	res, err := h.Svc.GetOrder(c.Request().Context(), user, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(c.Request().Context(), user, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
