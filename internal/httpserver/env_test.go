package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/db"
	"github.com/grishakov/retail-platform/internal/events"
	"github.com/grishakov/retail-platform/internal/hash"
	"github.com/grishakov/retail-platform/internal/mailer"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
	"github.com/grishakov/retail-platform/internal/search"
	"github.com/grishakov/retail-platform/internal/service"
)

var testJWTSecret = []byte("test-secret")

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

type discardSender struct{}

func (discardSender) Send(to, subject, body string) error { return nil }

func newTestServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	dispatcher := mailer.NewDispatcher(discardSender{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	dispatcher.Delay = 0

	authSvc := &service.AuthService{
		Repo:      r,
		OTP:       service.NewOTPService(r),
		Pending:   service.NewPendingStore(),
		Mail:      dispatcher,
		JWTSecret: testJWTSecret,
	}

	e := echo.New()
	Register(e, &Deps{
		DB:             gdb,
		JWTSecret:      testJWTSecret,
		AuthHandler:    &AuthHandler{Svc: authSvc},
		CartHandler:    &CartHandler{Svc: &service.CartService{Repo: r}},
		OrderHandler:   &OrderHandler{Svc: &service.CheckoutService{Repo: r, Producer: events.Noop{}, Mail: dispatcher}},
		CatalogHandler: &CatalogHandler{Svc: &service.CatalogService{Repo: r, Indexer: search.NoopIndexer{}, Producer: events.Noop{}}},
		ShopHandler:    &ShopHandler{Svc: &service.ShopService{Repo: r}},
	})
	return e, r
}

func doJSON(e *echo.Echo, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, r *repo.GormRepo, username, email string, role models.Role) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password123")
	require.NoError(t, err)

	u := &models.User{Username: username, Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, r.DB.Create(u).Error)
	return u
}

// login drives the real endpoint and returns the auth cookies for follow-up
// requests.
func login(t *testing.T, e *echo.Echo, username string) []*http.Cookie {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/v1/login",
		`{"username":"`+username+`","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}
