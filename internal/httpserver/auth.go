package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/service"
	"github.com/grishakov/retail-platform/internal/transport"
)

const pendingCookieName = "pendingRegistration"

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleBuyer
	}

	token, err := h.Svc.StartRegistration(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(CreateCookie(pendingCookieName, token, "/", time.Now().Add(30*time.Minute)))
	return c.JSON(http.StatusAccepted, echo.Map{
		"message": "OTP sent, please verify to complete registration",
	})
}

func (h *AuthHandler) ConfirmRegistration(c echo.Context) error {
	var req transport.ConfirmRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cookie, err := c.Cookie(pendingCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no registration in progress")
	}

	user, err := h.Svc.ConfirmRegistration(c.Request().Context(), cookie.Value, req.OTP)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(CreateCookie(pendingCookieName, "", "/", time.Now().Add(-time.Hour)))
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(CreateCookie("accessToken", res.AccessToken, "/", res.ExpiresAt))
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
		"user":         res.User,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(CreateCookie("accessToken", "", "/", time.Now().Add(-time.Hour)))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent, please check your email"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(c.Request().Context(), req.OTP, req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
