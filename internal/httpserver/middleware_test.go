package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grishakov/retail-platform/internal/models"
)

func signedToken(t *testing.T, secret []byte, userID uint, role models.Role, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(userID),
		"role": string(role),
		"exp":  exp.Unix(),
	})
	s, err := token.SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	// no cookie
	rec := doJSON(e, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage token
	rec = doJSON(e, http.MethodGet, "/api/v1/cart", "", []*http.Cookie{
		{Name: "accessToken", Value: "not-a-jwt"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// wrong secret
	forged := signedToken(t, []byte("wrong"), 1, models.RoleBuyer, time.Now().Add(time.Hour))
	rec = doJSON(e, http.MethodGet, "/api/v1/cart", "", []*http.Cookie{
		{Name: "accessToken", Value: forged},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// expired
	expired := signedToken(t, testJWTSecret, 1, models.RoleBuyer, time.Now().Add(-time.Minute))
	rec = doJSON(e, http.MethodGet, "/api/v1/cart", "", []*http.Cookie{
		{Name: "accessToken", Value: expired},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid
	valid := signedToken(t, testJWTSecret, 1, models.RoleBuyer, time.Now().Add(time.Hour))
	rec = doJSON(e, http.MethodGet, "/api/v1/cart", "", []*http.Cookie{
		{Name: "accessToken", Value: valid},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateCookie(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	c := CreateCookie("accessToken", "v", "/", exp)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}
